package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/scoring"
	"github.com/abhisek/empathiz/internal/screen"
	"github.com/abhisek/empathiz/internal/store"
	"github.com/abhisek/empathiz/internal/ui/components"
	"github.com/abhisek/empathiz/internal/ui/layout"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

// historyLimit caps how many past reports are listed.
const historyLimit = 50

type historyLoadedMsg struct {
	Records []store.ReviewRecord
	Err     error
}

// HistoryScreen lists past test reports.
type HistoryScreen struct {
	reviews  store.ReviewRepo
	records  []store.ReviewRecord
	reports  map[int]*review.Report // decoded on first expand
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(reviews store.ReviewRepo) *HistoryScreen {
	return &HistoryScreen{
		reviews:  reviews,
		reports:  make(map[int]*review.Report),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		recs, err := s.reviews.List(context.Background(), historyLimit)
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.records) {
				s.toggle(s.selected)
			}
		}
	}
	return s, nil
}

// toggle expands or collapses a row, decoding its report the first time.
func (s *HistoryScreen) toggle(i int) {
	s.expanded[i] = !s.expanded[i]
	if !s.expanded[i] || s.reports[i] != nil {
		return
	}
	rep, err := review.Decode(s.records[i])
	if err != nil {
		s.errMsg = err.Error()
		s.expanded[i] = false
		return
	}
	s.reports[i] = rep
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No tests yet. Take one from the home screen!")
	}

	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		band := scoring.BandOf(rec.OverallScore)
		line := fmt.Sprintf("%s%s  %-12s %d prompts  %4.1f %s",
			prefix, rec.CreatedAt.Format("Jan 02, 2006"), rec.TopicName,
			rec.PromptCount, rec.OverallScore, band)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				renderAverages(s.reports[i], cw)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderAverages renders a report's per-dimension averages as score bars.
func renderAverages(rep *review.Report, cw int) string {
	if rep == nil {
		return ""
	}
	var lines []string
	for _, avg := range rep.Averages {
		lines = append(lines, components.ScoreLine(avg.Label, avg.Average, avg.Samples > 0, 22, cw))
	}
	if rep.Coaching != "" {
		lines = append(lines, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).Italic(true).Width(cw).
			Render(rep.Coaching))
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}
