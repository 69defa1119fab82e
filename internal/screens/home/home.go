package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/screen"
	"github.com/abhisek/empathiz/internal/screens/history"
	"github.com/abhisek/empathiz/internal/screens/topics"
	"github.com/abhisek/empathiz/internal/store"
	"github.com/abhisek/empathiz/internal/ui/components"
)

// stats summarizes stored reports for the home dashboard.
type stats struct {
	taken       int
	best        float64
	latest      float64
	latestTopic string
}

// statsMsg carries freshly loaded stats.
type statsMsg struct {
	stats stats
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc        screen.Services
	menu       components.Menu
	menuLabels []string
	stats      stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc screen.Services) *HomeScreen {
	menuLabels := []string{"TAKE A TEST", "HISTORY", "QUIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: topics.New(svc)}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(svc.Reviews)}
			}
		}, Disabled: svc.Reviews == nil},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		svc:        svc,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

// Init reloads the dashboard stats; it runs again whenever the user
// returns to the home screen.
func (h *HomeScreen) Init() tea.Cmd {
	reviews := h.svc.Reviews
	if reviews == nil {
		return nil
	}
	log := logging.OrNop(h.svc.Log)
	return func() tea.Msg {
		recs, err := reviews.List(context.Background(), 0)
		if err != nil {
			log.Warn("load review stats", zap.Error(err))
			return statsMsg{}
		}
		return statsMsg{stats: computeStats(recs)}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsMsg); ok {
		h.stats = m.stats
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(variantFor(h.stats.latest, h.stats.taken > 0), cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, compact))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// computeStats derives dashboard stats from reports listed newest first.
func computeStats(recs []store.ReviewRecord) stats {
	if len(recs) == 0 {
		return stats{}
	}
	best := lo.MaxBy(recs, func(a, b store.ReviewRecord) bool {
		return a.OverallScore > b.OverallScore
	})
	return stats{
		taken:       len(recs),
		best:        best.OverallScore,
		latest:      recs[0].OverallScore,
		latestTopic: recs[0].TopicName,
	}
}
