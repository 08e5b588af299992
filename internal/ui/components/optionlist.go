package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/ui/theme"
)

// ChoiceOption is one selectable answer option.
type ChoiceOption struct {
	ID    int
	Label string
}

// OptionList is an answer-option selector for assessment questions.
// There is no right or wrong option; once a choice is locked the list
// freezes until the screen swaps in the next question.
type OptionList struct {
	Prompt   string
	Options  []ChoiceOption
	Selected int
	Locked   bool
}

// NewOptionList creates an option list for the given question.
func NewOptionList(prompt string, options []ChoiceOption) OptionList {
	return OptionList{
		Prompt:  prompt,
		Options: options,
	}
}

// Init returns nil.
func (o OptionList) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Selection keys are ignored while
// locked so an in-flight answer cannot be changed.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Locked {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	}

	return o, nil
}

// Lock freezes the list on the current selection.
func (o *OptionList) Lock() {
	o.Locked = true
}

// Chosen returns the currently highlighted option.
func (o OptionList) Chosen() (ChoiceOption, bool) {
	if o.Selected < 0 || o.Selected >= len(o.Options) {
		return ChoiceOption{}, false
	}
	return o.Options[o.Selected], true
}

// SelectIndex moves the highlight to the given index if it exists.
func (o *OptionList) SelectIndex(i int) bool {
	if i < 0 || i >= len(o.Options) {
		return false
	}
	o.Selected = i
	return true
}

// View renders the prompt and the lettered option rows.
func (o OptionList) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := promptStyle.Render(o.Prompt) + "\n\n"

	for i, opt := range o.Options {
		letter := 'A' + rune(i)
		prefix := "  "
		if i == o.Selected && !o.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, letter, opt.Label)

		switch {
		case o.Locked && i == o.Selected:
			s += theme.Saving.Render(line) + "\n"
		case o.Locked:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == o.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
