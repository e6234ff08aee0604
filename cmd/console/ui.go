package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yourhelpa/helpa/internal/handlers"
	"github.com/yourhelpa/helpa/pkg/message"
)

const PlaceHolderText = "Type a message, or an action id like OPT_FIND_SERVICE..."

// ConsoleUI is the BubbleTea model that runs the dev chat console.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	chatViewport viewport.Model
	textarea     textarea.Model
	transcript   []string
	state        string
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	copied       bool
}

type turnMsg struct {
	response *handlers.ChatResponse
	err      error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: vp,
		state:        "ENTRY",
	}
}

func (ui ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (ui ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var taCmd, vpCmd tea.Cmd
	ui.textarea, taCmd = ui.textarea.Update(msg)
	ui.chatViewport, vpCmd = ui.chatViewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		ui.chatViewport.Width = msg.Width - 4
		ui.chatViewport.Height = msg.Height - 7
		ui.textarea.SetWidth(msg.Width - 4)
		ui.ready = true
		ui.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyCtrlY:
			_ = clipboard.WriteAll(strings.Join(ui.transcript, "\n"))
			ui.copied = true
		case tea.KeyEnter:
			input := strings.TrimSpace(ui.textarea.Value())
			if input == "" || ui.loading {
				break
			}
			ui.transcript = append(ui.transcript, userStyle.Render("You: ")+input)
			ui.textarea.Reset()
			ui.loading = true
			ui.copied = false
			ui.refreshViewport()
			return ui, tea.Batch(taCmd, vpCmd, ui.sendCmd(input))
		}

	case turnMsg:
		ui.loading = false
		if msg.err != nil {
			ui.err = msg.err
			ui.transcript = append(ui.transcript, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			ui.err = nil
			ui.state = string(msg.response.State)
			for _, r := range msg.response.Messages {
				ui.transcript = append(ui.transcript, renderMessage(r, ui.chatViewport.Width))
			}
		}
		ui.refreshViewport()
	}

	return ui, tea.Batch(taCmd, vpCmd)
}

func (ui ConsoleUI) View() string {
	if !ui.ready {
		return "Loading..."
	}

	status := stateStyle.Render(fmt.Sprintf("state: %s · visitor: %s · ctrl+y copy · esc quit", ui.state, ui.config.VisitorID))
	if ui.loading {
		status = actionStyle.Render("thinking...") + "  " + status
	}
	if ui.copied {
		status = actionStyle.Render("copied!") + "  " + status
	}

	return fmt.Sprintf("  %s\n\n%s\n\n  %s\n  %s\n",
		titleStyle.Render("HELPA DEV CONSOLE"),
		ui.chatViewport.View(),
		status,
		ui.textarea.View())
}

func (ui *ConsoleUI) refreshViewport() {
	ui.chatViewport.SetContent(strings.Join(ui.transcript, "\n\n"))
	ui.chatViewport.GotoBottom()
}

func (ui ConsoleUI) sendCmd(input string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendTurn(ui.client, ui.config.APIBaseURL, ui.config.VisitorID, ui.config.Name, input)
		return turnMsg{response: resp, err: err}
	}
}

// renderMessage flattens a renderable into console text, surfacing the
// action ids so they can be typed back to simulate taps.
func renderMessage(r message.Renderable, width int) string {
	if width <= 0 {
		width = 76
	}

	var b strings.Builder
	switch r.Kind {
	case message.KindText:
		b.WriteString(assistantStyle.Render("Helpa: ") + r.Text.Body)

	case message.KindButton:
		b.WriteString(assistantStyle.Render("Helpa: ") + r.Button.Body + "\n")
		b.WriteString(actionStyle.Render(fmt.Sprintf("  [✅ %s]  [❌ %s]", r.Button.YesID, r.Button.NoID)))
		if r.Button.Footer != "" {
			b.WriteString("\n" + stateStyle.Render("  "+r.Button.Footer))
		}

	case message.KindList:
		b.WriteString(assistantStyle.Render(r.List.Header) + "\n" + r.List.Body + "\n")
		for _, section := range r.List.Sections {
			b.WriteString(stateStyle.Render("  — "+section.Title) + "\n")
			for _, row := range section.Rows {
				line := fmt.Sprintf("  %s  %s", actionStyle.Render(row.ID), row.Title)
				if row.Description != "" {
					line += stateStyle.Render("  (" + row.Description + ")")
				}
				b.WriteString(line + "\n")
			}
		}
	}

	return wordwrap.String(b.String(), width)
}
