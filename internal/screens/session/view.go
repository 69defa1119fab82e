package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/scoring"
	sess "github.com/abhisek/empathiz/internal/session"
	"github.com/abhisek/empathiz/internal/ui/components"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

// scoreLabelWidth fits the longest dimension label.
const scoreLabelWidth = 18

func progressText(answered, total int) string {
	return fmt.Sprintf("%d/%d scored  ", answered, total)
}

// renderInfoLine renders the "Prompt i of N" line with a results bar.
func (s *SessionScreen) renderInfoLine(title string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + title)

	total := s.state.PromptCount()
	bar := components.ProgressBar{
		Percent: float64(s.state.Answered()) / float64(total),
		Width:   20,
	}
	right := bar.View()

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))) +
		"\n\n"
}

// renderPromptView renders a prompt with its answer input.
func (s *SessionScreen) renderPromptView(v sess.View, width, height int) string {
	i := v.Slot.PromptIndex
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(fmt.Sprintf("Prompt %d of %d", i+1, s.state.PromptCount()), width))

	if v.Prompt.Context != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Render(v.Prompt.Context)))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(v.Prompt.Question)))
	b.WriteString("\n\n")

	boxHeight := height - lipgloss.Height(b.String()) - 6
	if boxHeight > 8 {
		boxHeight = 8
	}
	if boxHeight < 3 {
		boxHeight = 3
	}
	s.input.SetSize(cw-2, boxHeight)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View(s.recording != nil)))
	b.WriteString("\n")

	var status string
	switch {
	case s.inflight[i]:
		status = lipgloss.NewStyle().Foreground(theme.Accent).Render("Analyzing your answer...")
	case s.recording != nil:
		status = lipgloss.NewStyle().Foreground(theme.Recording).Bold(true).Render("● Listening... Ctrl+R to stop")
	case s.errs[i] != "":
		status = theme.ErrorText.Render(s.errs[i])
	case s.notice != "":
		status = theme.Hint.Render(s.notice)
	case s.resultFilled(i):
		status = theme.Hint.Render("Scored. Tab to see the result, or edit and resubmit.")
	}
	if status != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, status))
	}
	return b.String()
}

func (s *SessionScreen) resultFilled(i int) bool {
	slot, ok := s.state.SlotAt(sess.ResultPosition(i))
	return ok && slot.Filled()
}

// renderResultView renders the reconciled scores for one prompt.
func (s *SessionScreen) renderResultView(v sess.View, width int) string {
	i := v.Slot.PromptIndex
	cw := components.ContentWidth(width)
	c := scoring.Canonicalize(v.Result)
	overall := scoring.OverallScore(c)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(fmt.Sprintf("Result %d of %d", i+1, s.state.PromptCount()), width))

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(cw).
			Render(v.Prompt.Question)))
	b.WriteString("\n\n")

	var lines []string
	for _, d := range scoring.Dimensions {
		score, ok := c.Score(d)
		lines = append(lines, components.ScoreLine(d.Label(), score, ok, scoreLabelWidth, cw-4))
		if why, ok := c.Reasoning(d); ok {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.TextDim).Width(cw-4).PaddingLeft(2).
				Render(why))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(strings.Join(lines, "\n"), cw)))
	b.WriteString("\n\n")

	tier := scoring.TierOf(overall, true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(components.TierColor(tier)).Bold(true).
			Render(fmt.Sprintf("Overall %.1f / 10", overall))))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw).
			Render(scoring.OverallReasoning(overall))))

	return b.String()
}

// renderReviewView renders the final slot: the gate to the summary.
func (s *SessionScreen) renderReviewView(width int) string {
	answered, total := s.state.Answered(), s.state.PromptCount()

	var b strings.Builder
	b.WriteString(s.renderInfoLine("Review", width))

	if s.state.CanReview() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.ButtonActive.Render("  ▸ SEE MY RESULTS  ")))
		b.WriteString("\n\n")
		b.WriteString(components.Centered(theme.Hint, width, "Every prompt is scored. Press Enter."))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.ButtonInactive.Render("    SEE MY RESULTS  ")))
		b.WriteString("\n\n")
		b.WriteString(components.Centered(theme.Hint, width,
			fmt.Sprintf("%d of %d prompts scored. Submit the rest to unlock your results.", answered, total)))
	}
	if s.reviewErr != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Centered(theme.ErrorText, width, s.reviewErr))
	}
	return b.String()
}

// renderQuitConfirm renders the leave-test confirmation.
func renderQuitConfirm(width, height, answered, total int) string {
	msg := fmt.Sprintf("Leave this test?\n\n%d of %d prompts scored.\nYour answers will not be saved.\n\n[Y] Leave   [N] Keep going",
		answered, total)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg), 44))
}
