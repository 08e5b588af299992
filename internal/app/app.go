package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/router"
	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/screens/assessment"
	"github.com/careercompass/compass/internal/screens/dashboard"
	"github.com/careercompass/compass/internal/screens/login"
	"github.com/careercompass/compass/internal/store"
	"github.com/careercompass/compass/internal/ui/layout"
)

// Options carries the wired dependencies into the TUI.
type Options struct {
	Client  *api.Client
	Session *auth.Session
	Store   *store.Store

	// StartAssessment opens straight into a new assessment attempt
	// (the `assess` subcommand). Requires a logged-in session.
	StartAssessment bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel picks the initial screen from the login state.
func newAppModel(opts Options) AppModel {
	var initial screen.Screen
	if opts.Session.LoggedIn() {
		initial = dashboard.New(opts.Client, opts.Session, opts.Store)
	} else {
		initial = login.New(opts.Client, opts.Session, opts.Store, "")
	}

	return AppModel{
		opts:   opts,
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.StartAssessment && m.opts.Session.LoggedIn() {
		studentID := 0
		if u := m.opts.Session.User(); u != nil {
			studentID = u.ID
		}
		return m.router.Push(assessment.New(
			m.opts.Client, m.opts.Client, m.opts.Store.AttemptRepo(), studentID))
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case auth.SignedOutMsg:
		cmd := m.router.Reset(login.New(m.opts.Client, m.opts.Session, m.opts.Store, msg.Notice))
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Screens that confirm or stage their own Esc handling get
			// the key; everyone else pops back.
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	studentName := ""
	if u := m.opts.Session.User(); u != nil {
		studentName = u.FullName
	}

	header := layout.RenderHeader(title, studentName, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
