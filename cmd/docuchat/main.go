// Package main is the entry point for the docuchat service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/docuchat/internal/docuchat"
)

func main() {
	docuchat.NewApp().Run()
}
