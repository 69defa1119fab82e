package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/ui/theme"
)

// AnswerLimit caps the length of a written answer.
const AnswerLimit = 2000

// AnswerBox is a multi-line answer editor.
type AnswerBox struct {
	Model textarea.Model
}

// NewAnswerBox creates a focused, empty answer editor.
func NewAnswerBox(placeholder string) AnswerBox {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = AnswerLimit
	ta.Prompt = "│ "
	ta.Focus()
	return AnswerBox{Model: ta}
}

// Init returns the initial command.
func (a AnswerBox) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update handles messages.
func (a AnswerBox) Update(msg tea.Msg) (AnswerBox, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// SetSize sizes the editor.
func (a *AnswerBox) SetSize(width, height int) {
	a.Model.SetWidth(width)
	a.Model.SetHeight(height)
}

// SetValue replaces the text and moves the cursor to the end.
func (a *AnswerBox) SetValue(s string) {
	a.Model.SetValue(s)
	a.Model.MoveToEnd()
}

// Value returns the current text.
func (a AnswerBox) Value() string {
	return a.Model.Value()
}

// View renders the editor with a border that turns red while recording.
func (a AnswerBox) View(recording bool) string {
	border := theme.Border
	if recording {
		border = theme.Recording
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(a.Model.View())
}
