package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/ui/components"
	"github.com/careercompass/compass/internal/ui/layout"
	"github.com/careercompass/compass/internal/ui/theme"
)

// Client is the slice of the API surface the booking screen needs.
type Client interface {
	Slots(ctx context.Context) ([]api.Slot, error)
	BookSlot(ctx context.Context, studentID, slotID int) error
	MyBookings(ctx context.Context, studentID int) ([]api.Booking, error)
}

// BookingScreen lets the student reserve a counselor slot and see
// existing bookings.
type BookingScreen struct {
	client    Client
	studentID int

	slots    []api.Slot
	bookings []api.Booking
	menu     components.Menu
	loaded   bool

	confirm    *api.Slot
	confirmBtn components.Button

	notice string
	errMsg string
}

var _ screen.Screen = (*BookingScreen)(nil)
var _ screen.KeyHintProvider = (*BookingScreen)(nil)
var _ screen.EscHandler = (*BookingScreen)(nil)

type loadedMsg struct {
	Slots    []api.Slot
	Bookings []api.Booking
	Err      error
}

type bookResultMsg struct {
	Err error
}

type selectSlotMsg struct {
	Slot api.Slot
}

// New creates a new BookingScreen.
func New(client Client, studentID int) *BookingScreen {
	return &BookingScreen{client: client, studentID: studentID}
}

func (b *BookingScreen) Init() tea.Cmd {
	return b.load()
}

func (b *BookingScreen) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		slots, err := b.client.Slots(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		// Bookings failing only hides the lower section.
		bookings, _ := b.client.MyBookings(ctx, b.studentID)
		return loadedMsg{Slots: slots, Bookings: bookings}
	}
}

func (b *BookingScreen) Title() string {
	return "Book Counselling"
}

func (b *BookingScreen) KeyHints() []layout.KeyHint {
	if b.confirm != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm booking"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select slot"},
		{Key: "Esc", Description: "Back"},
	}
}

// HandlesEsc intercepts Esc while the confirm prompt is up so it cancels
// the confirmation instead of leaving the screen.
func (b *BookingScreen) HandlesEsc() bool {
	return b.confirm != nil
}

func (b *BookingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		b.loaded = true
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrUnauthorized) {
				return b, func() tea.Msg {
					return auth.SignedOutMsg{Notice: "Your session expired. Please sign in again."}
				}
			}
			b.errMsg = msg.Err.Error()
			return b, nil
		}
		b.slots = msg.Slots
		b.bookings = msg.Bookings
		b.menu = components.NewMenu(b.menuItems())
		return b, nil

	case selectSlotMsg:
		slot := msg.Slot
		b.confirm = &slot
		b.confirmBtn = components.NewButton("Book this slot", true, b.book)
		return b, nil

	case bookResultMsg:
		b.confirm = nil
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrUnauthorized) {
				return b, func() tea.Msg {
					return auth.SignedOutMsg{Notice: "Your session expired. Please sign in again."}
				}
			}
			b.notice = "Booking failed: " + msg.Err.Error()
			return b, nil
		}
		b.notice = "Slot booked."
		b.loaded = false
		return b, b.load()

	case tea.KeyMsg:
		if b.confirm != nil {
			if msg.String() == "esc" {
				b.confirm = nil
				return b, nil
			}
			var cmd tea.Cmd
			b.confirmBtn, cmd = b.confirmBtn.Update(msg)
			return b, cmd
		}
		var cmd tea.Cmd
		b.menu, cmd = b.menu.Update(msg)
		return b, cmd
	}

	return b, nil
}

func (b *BookingScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(b.slots))
	for _, slot := range b.slots {
		slot := slot
		items = append(items, components.MenuItem{
			Label:    slotLabel(slot),
			Disabled: slot.IsBooked,
			Action: func() tea.Cmd {
				return func() tea.Msg { return selectSlotMsg{Slot: slot} }
			},
		})
	}
	return items
}

func (b *BookingScreen) book() tea.Cmd {
	slot := b.confirm
	return func() tea.Msg {
		if slot == nil {
			return bookResultMsg{}
		}
		err := b.client.BookSlot(context.Background(), b.studentID, slot.ID)
		return bookResultMsg{Err: err}
	}
}

func (b *BookingScreen) View(width, height int) string {
	if b.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n  Could not load slots: " + b.errMsg)
	}
	if !b.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading slots...")
	}

	if b.confirm != nil {
		return b.renderConfirm(width)
	}

	var s strings.Builder
	s.WriteString("\n")
	if b.notice != "" {
		s.WriteString("  " + theme.Alert.Render(b.notice) + "\n\n")
	}

	s.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Available slots") + "\n\n")
	if len(b.slots) == 0 {
		s.WriteString(theme.Hint.Render("    No open slots right now. Check back later.") + "\n")
	} else {
		s.WriteString(b.menu.View())
	}

	if len(b.bookings) > 0 {
		s.WriteString("\n  " + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Your bookings") + "\n\n")
		for _, bk := range b.bookings {
			line := fmt.Sprintf("    %s with %s", bk.StartsAt, bk.CounselorName)
			if bk.Status != "" {
				line += "  (" + bk.Status + ")"
			}
			s.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n")
		}
	}

	return s.String()
}

func (b *BookingScreen) renderConfirm(width int) string {
	var s strings.Builder
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Confirm booking"))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(slotLabel(*b.confirm)))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, b.confirmBtn.View()))
	return s.String()
}

func slotLabel(s api.Slot) string {
	return fmt.Sprintf("%s — %s", s.StartsAt, s.CounselorName)
}
