package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/scoring"
	"github.com/abhisek/empathiz/internal/screen"
	"github.com/abhisek/empathiz/internal/ui/components"
	"github.com/abhisek/empathiz/internal/ui/layout"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

// coachingTimeout bounds narrative generation so the report is always
// handed off.
const coachingTimeout = 45 * time.Second

// handoffDoneMsg reports the end of the coaching + publish step.
type handoffDoneMsg struct {
	Coaching string
	Err      error // publish error; coaching failures are only logged
}

// SummaryScreen displays the end-of-test report.
type SummaryScreen struct {
	svc      screen.Services
	report   *review.Report
	coaching string
	done     bool
	errMsg   string
	offset   int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)
var _ screen.BackInterceptor = (*SummaryScreen)(nil)

// New creates a new SummaryScreen for rep.
func New(svc screen.Services, rep *review.Report) *SummaryScreen {
	return &SummaryScreen{svc: svc, report: rep}
}

// Init generates the coaching narrative (when configured) and then
// publishes the report, so the stored copy carries the narrative.
func (s *SummaryScreen) Init() tea.Cmd {
	if s.report == nil {
		return nil
	}
	rep := *s.report
	coach := s.svc.Coach
	pub := s.svc.Publisher
	log := logging.OrNop(s.svc.Log).Named("summary")

	return func() tea.Msg {
		if coach != nil {
			ctx, cancel := context.WithTimeout(context.Background(), coachingTimeout)
			n, err := coach.Generate(ctx, &rep)
			cancel()
			if err != nil {
				log.Warn("coaching narrative", zap.String("session_id", rep.SessionID), zap.Error(err))
			}
			rep.Coaching = n.String()
		}
		var err error
		if pub != nil {
			err = pub.Publish(&rep)
		}
		return handoffDoneMsg{Coaching: rep.Coaching, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Your Results"
}

func (s *SummaryScreen) Status() string {
	if !s.done {
		return "saving…  "
	}
	return ""
}

func (s *SummaryScreen) InterceptBack() bool { return true }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case handoffDoneMsg:
		s.done = true
		s.coaching = msg.Coaching
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			// Back past the test screen to home.
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	rep := s.report
	if rep == nil {
		return ""
	}

	lines := strings.Split(s.render(width), "\n")
	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	end := s.offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[s.offset:end], "\n")
}

func (s *SummaryScreen) render(width int) string {
	rep := s.report
	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), width,
		fmt.Sprintf("%s complete!", rep.TopicName)))
	b.WriteString("\n\n")

	band := scoring.BandOf(rep.Overall)
	overall := lipgloss.NewStyle().
		Foreground(components.TierColor(scoring.TierOf(rep.Overall, true))).
		Bold(true).
		Render(fmt.Sprintf("%.1f / 10  %s", rep.Overall, strings.ToUpper(band.String())))
	b.WriteString(center(overall))
	b.WriteString("\n")
	mins := int(rep.Duration.Minutes())
	secs := int(rep.Duration.Seconds()) % 60
	b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width,
		fmt.Sprintf("%d prompts in %d:%02d", len(rep.Prompts), mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(rep.Feedback)))
	b.WriteString("\n\n")

	var avg []string
	for _, a := range rep.Averages {
		avg = append(avg, components.ScoreLine(a.Label, a.Average, a.Samples > 0, 22, cw-4))
	}
	if weak, ok := rep.Weakest(); ok {
		avg = append(avg, "", lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Work on: "+weak.Label))
	}
	b.WriteString(center(components.Card(strings.Join(avg, "\n"), cw)))
	b.WriteString("\n\n")

	switch {
	case s.coaching != "":
		b.WriteString(center(components.Card(lipgloss.NewStyle().
			Foreground(theme.Secondary).Italic(true).Width(cw-4).
			Render(s.coaching), cw)))
		b.WriteString("\n\n")
	case !s.done && s.svc.Coach != nil:
		b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width,
			"Writing your coaching note…"))
		b.WriteString("\n\n")
	}

	if s.errMsg != "" {
		b.WriteString(components.Centered(theme.ErrorText, width,
			"Could not save this report: "+s.errMsg))
		b.WriteString("\n\n")
	}

	for _, p := range rep.Prompts {
		b.WriteString(center(renderPrompt(p, cw)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderPrompt renders one prompt's answer and scores.
func renderPrompt(p review.PromptReport, cw int) string {
	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
			Render(fmt.Sprintf("%d. %s", p.PromptIndex+1, p.Question)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(cw-4).
			Render("“"+p.Answer+"”"),
		"",
	)
	for _, d := range p.Dimensions {
		lines = append(lines, components.ScoreLine(d.Label, d.Score, d.Present, 22, cw-4))
	}
	lines = append(lines, "", lipgloss.NewStyle().
		Foreground(components.TierColor(scoring.TierOf(p.Overall, true))).
		Render(fmt.Sprintf("Overall %.1f  %s", p.Overall, p.Band)))
	return components.Card(strings.Join(lines, "\n"), cw)
}
