// Package main is the terminal chat client for the docuchat service.
package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/kart-io/docuchat/internal/chatui"
)

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("DOCUCHAT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	var chatModel string
	flag.StringVar(&baseURL, "url", baseURL, "Base URL of the docuchat service")
	flag.StringVar(&chatModel, "model", "", "Chat model to use (default: first available)")
	flag.Parse()

	m := chatui.New(chatui.NewClient(baseURL), chatModel)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
