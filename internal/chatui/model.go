package chatui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const helpText = `Commands:
  /models            list available chat models
  /model <name>      switch the chat model
  /files             list uploaded documents
  /upload <path>     upload and index a local document
  /remove <name>     remove an uploaded document
  /help              show this help
Anything else is sent to the model as a question. Ctrl+C quits.`

// Model is the Bubble Tea model for the chat client.
type Model struct {
	client   *Client
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	model    string
	status   string
	ready    bool
}

// New creates the chat model. chatModel is the initial chat model name;
// empty picks the first one the service offers.
func New(client *Client, chatModel string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question or type /help"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		client:   client,
		input:    ti,
		viewport: vp,
		model:    chatModel,
		status:   "Connected. Type /help for commands.",
	}
}

// Init resolves the chat model and starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.resolveModel())
}

type modelResolvedMsg struct {
	model string
	err   error
}

func (m Model) resolveModel() tea.Cmd {
	return func() tea.Msg {
		if m.model != "" {
			return modelResolvedMsg{model: m.model}
		}
		models, err := m.client.Models(context.Background())
		if err != nil {
			return modelResolvedMsg{err: err}
		}
		if len(models) == 0 {
			return modelResolvedMsg{err: errors.New("the service offers no chat models")}
		}
		return modelResolvedMsg{model: models[0]}
	}
}

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return m, nil

	case modelResolvedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("No models available: " + msg.err.Error())
			return m, nil
		}
		m.model = msg.model
		m.status = "Using model " + m.model
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.handleLine(line), nil
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "pgup":
			m.viewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfPageDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("DocuChat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	return header + "\n" + chat + "\n" + input + "\n" + m.status
}

func (m Model) handleLine(line string) Model {
	if strings.HasPrefix(line, "/") {
		return m.handleCommand(line)
	}
	return m.ask(line)
}

func (m Model) handleCommand(line string) Model {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	ctx := context.Background()
	switch cmd {
	case "/help":
		return m.append(infoStyle.Render(helpText))

	case "/models":
		models, err := m.client.Models(ctx)
		if err != nil {
			return m.appendError(err)
		}
		return m.append(infoStyle.Render("Available models: " + strings.Join(models, ", ")))

	case "/model":
		if arg == "" {
			return m.append(infoStyle.Render("Current model: " + m.model))
		}
		m.model = arg
		m.status = "Using model " + m.model
		return m.append(infoStyle.Render("Switched to model " + arg))

	case "/files":
		files, err := m.client.Files(ctx)
		if err != nil {
			return m.appendError(err)
		}
		if len(files) == 0 {
			return m.append(infoStyle.Render("No documents uploaded yet."))
		}
		return m.append(infoStyle.Render("Uploaded: " + strings.Join(files, ", ")))

	case "/upload":
		if arg == "" {
			return m.append(errorStyle.Render("Usage: /upload <path>"))
		}
		message, err := m.client.Upload(ctx, arg)
		if err != nil {
			return m.appendError(err)
		}
		return m.append(infoStyle.Render(message))

	case "/remove":
		if arg == "" {
			return m.append(errorStyle.Render("Usage: /remove <name>"))
		}
		message, err := m.client.Remove(ctx, arg)
		if err != nil {
			return m.appendError(err)
		}
		return m.append(infoStyle.Render(message))

	default:
		return m.append(errorStyle.Render("Unknown command " + cmd + ". Type /help."))
	}
}

func (m Model) ask(question string) Model {
	if m.model == "" {
		return m.append(errorStyle.Render("No chat model selected. Use /model <name>."))
	}

	m = m.append(youStyle.Render("You: ") + question)
	m.status = "Thinking..."

	answer, err := m.client.Ask(context.Background(), m.model, question)
	if err != nil {
		m.status = "Using model " + m.model
		if errors.Is(err, ErrNoData) {
			return m.append(infoStyle.Render("No data available. Upload a document first with /upload <path>."))
		}
		return m.appendError(err)
	}

	m.status = "Using model " + m.model
	m = m.append(botStyle.Render(m.model+": ") + answer.Result)
	if len(answer.Sources) > 0 {
		m = m.append(sourceStyle.Render("Sources: " + strings.Join(answer.Sources, ", ")))
	}
	return m
}

func (m Model) append(line string) Model {
	m.lines = append(m.lines, line, "")
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
	return m
}

func (m Model) appendError(err error) Model {
	return m.append(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
