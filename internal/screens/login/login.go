package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/router"
	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/screens/dashboard"
	"github.com/careercompass/compass/internal/store"
	"github.com/careercompass/compass/internal/ui/components"
	"github.com/careercompass/compass/internal/ui/layout"
	"github.com/careercompass/compass/internal/ui/theme"
)

type step int

const (
	stepPhone step = iota
	stepSending
	stepOTP
	stepVerifying
)

// LoginScreen walks through phone number and OTP entry.
type LoginScreen struct {
	client *api.Client
	sess   *auth.Session
	st     *store.Store

	step   step
	phone  string
	input  components.TextInput
	notice string
	errMsg string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.EscHandler = (*LoginScreen)(nil)

type otpSentMsg struct {
	Err error
}

type verifiedMsg struct {
	V   api.Verified
	Err error
}

// New creates the login screen. The notice, if any, is shown once above
// the form (expired session, post-logout).
func New(client *api.Client, sess *auth.Session, st *store.Store, notice string) *LoginScreen {
	return &LoginScreen{
		client: client,
		sess:   sess,
		st:     st,
		notice: notice,
		input:  components.NewTextInput("10-digit phone number", true, 10),
	}
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.input.Init()
}

func (l *LoginScreen) Title() string {
	return "Sign In"
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	if l.step == stepOTP {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Verify code"},
			{Key: "Esc", Description: "Change number"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send code"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// HandlesEsc keeps Esc inside the screen: on the OTP step it goes back
// to the phone step instead of popping the only screen on the stack.
func (l *LoginScreen) HandlesEsc() bool {
	return true
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case otpSentMsg:
		if msg.Err != nil {
			l.step = stepPhone
			l.errMsg = msg.Err.Error()
			return l, nil
		}
		l.step = stepOTP
		l.errMsg = ""
		l.input = components.NewTextInput("One-time code", true, 6)
		return l, l.input.Init()

	case verifiedMsg:
		if msg.Err != nil {
			l.step = stepOTP
			l.errMsg = msg.Err.Error()
			return l, nil
		}
		if err := l.sess.Login(context.Background(), msg.V.User, msg.V.Token); err != nil {
			l.step = stepPhone
			l.errMsg = err.Error()
			return l, nil
		}
		return l, func() tea.Msg {
			return router.ReplaceScreenMsg{
				Screen: dashboard.New(l.client, l.sess, l.st),
			}
		}

	case tea.KeyMsg:
		return l.handleKey(msg)
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LoginScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if l.step == stepOTP {
			l.step = stepPhone
			l.errMsg = ""
			l.input = components.NewTextInput("10-digit phone number", true, 10)
			return l, l.input.Init()
		}
		return l, nil

	case "enter":
		switch l.step {
		case stepPhone:
			phone := l.input.Value()
			if len(phone) < 10 {
				l.errMsg = "Enter a 10-digit phone number."
				return l, nil
			}
			l.phone = phone
			l.step = stepSending
			l.errMsg = ""
			return l, l.sendOTP()
		case stepOTP:
			code := l.input.Value()
			if code == "" {
				return l, nil
			}
			l.step = stepVerifying
			l.errMsg = ""
			return l, l.verify(code)
		}
		return l, nil
	}

	if l.step == stepPhone || l.step == stepOTP {
		var cmd tea.Cmd
		l.input, cmd = l.input.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LoginScreen) sendOTP() tea.Cmd {
	phone := l.phone
	return func() tea.Msg {
		return otpSentMsg{Err: l.client.SendOTP(context.Background(), phone)}
	}
}

func (l *LoginScreen) verify(code string) tea.Cmd {
	phone := l.phone
	return func() tea.Msg {
		v, err := l.client.VerifyOTP(context.Background(), phone, code)
		return verifiedMsg{V: v, Err: err}
	}
}

func (l *LoginScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(theme.Title.Width(width).Render("Sign in to Compass"))
	b.WriteString("\n\n")

	if l.notice != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(theme.Alert.Render(l.notice)))
		b.WriteString("\n\n")
	}

	var prompt, field string
	switch l.step {
	case stepPhone:
		prompt = "Phone number"
		field = l.input.View()
	case stepSending:
		prompt = "Phone number"
		field = theme.Saving.Render("Sending code...")
	case stepOTP:
		prompt = "Enter the code we sent to " + l.phone
		field = l.input.View()
	case stepVerifying:
		prompt = "Enter the code we sent to " + l.phone
		field = theme.Saving.Render("Verifying...")
	}

	b.WriteString(theme.Subtitle.Width(width).Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, field))

	if l.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(l.errMsg))
	}

	return b.String()
}
