package dashboard

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/router"
	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/screens/assessment"
	"github.com/careercompass/compass/internal/screens/booking"
	"github.com/careercompass/compass/internal/screens/history"
	"github.com/careercompass/compass/internal/screens/resultview"
	"github.com/careercompass/compass/internal/store"
	"github.com/careercompass/compass/internal/ui/components"
	"github.com/careercompass/compass/internal/ui/theme"
)

// DashboardScreen is the signed-in landing screen.
type DashboardScreen struct {
	menu components.Menu
	sess *auth.Session
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates the dashboard with navigation into every flow.
func New(client *api.Client, sess *auth.Session, st *store.Store) *DashboardScreen {
	studentID := 0
	if u := sess.User(); u != nil {
		studentID = u.ID
	}

	items := []components.MenuItem{
		{Label: "START ASSESSMENT", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: assessment.New(client, client, st.AttemptRepo(), studentID),
				}
			}
		}},
		{Label: "MY RESULTS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: resultview.New(client, studentID),
				}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: history.New(st.AttemptRepo()),
				}
			}
		}},
		{Label: "BOOK COUNSELLING", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: booking.New(client, studentID),
				}
			}
		}},
		{Label: "SIGN OUT", Action: func() tea.Cmd {
			return func() tea.Msg {
				_ = sess.Clear(context.Background())
				return auth.SignedOutMsg{}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &DashboardScreen{
		menu: components.NewMenu(items),
		sess: sess,
	}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	greeting := "Welcome"
	if u := d.sess.User(); u != nil && u.FullName != "" {
		greeting = "Welcome, " + u.FullName
	}
	b.WriteString(theme.Title.Width(width).Render(greeting))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Find the career path that fits you."))
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, d.menu.View()))

	return b.String()
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}
