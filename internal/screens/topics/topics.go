package topics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/screen"
	sessionscreen "github.com/abhisek/empathiz/internal/screens/session"
	"github.com/abhisek/empathiz/internal/session"
	"github.com/abhisek/empathiz/internal/ui/components"
	"github.com/abhisek/empathiz/internal/ui/layout"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

// errNoPrompts is shown when a topic has nothing to ask.
var errNoPrompts = errors.New("this topic has no prompts yet")

type topicsLoadedMsg struct {
	Topics []catalog.Topic
	Err    error
}

type promptsLoadedMsg struct {
	Topic   catalog.Topic
	Prompts []catalog.Prompt
	Err     error
}

// TopicsScreen lets the user pick a topic and loads its prompts.
type TopicsScreen struct {
	svc      screen.Services
	topics   []catalog.Topic
	menu     components.Menu
	loaded   bool
	starting bool
	errMsg   string
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a new TopicsScreen.
func New(svc screen.Services) *TopicsScreen {
	return &TopicsScreen{svc: svc}
}

func (s *TopicsScreen) Init() tea.Cmd {
	cat := s.svc.Catalog
	return func() tea.Msg {
		topics, err := cat.Topics(context.Background())
		return topicsLoadedMsg{Topics: topics, Err: err}
	}
}

func (s *TopicsScreen) Title() string {
	return "Choose a Topic"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start test"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.fail(msg.Err)
			return s, nil
		}
		s.topics = msg.Topics
		items := make([]components.MenuItem, len(msg.Topics))
		for i, t := range msg.Topics {
			items[i] = components.MenuItem{Label: t.Name, Action: s.startCmd(t)}
		}
		s.menu = components.NewMenu(items)
		return s, nil

	case promptsLoadedMsg:
		s.starting = false
		if msg.Err == nil && len(msg.Prompts) == 0 {
			msg.Err = errNoPrompts
		}
		if msg.Err != nil {
			s.fail(msg.Err)
			return s, nil
		}
		sess := session.New(msg.Topic.ID, msg.Prompts)
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: sessionscreen.New(s.svc, msg.Topic, sess)}
		}

	case tea.KeyMsg:
		if s.errMsg != "" {
			if msg.String() == "r" {
				s.errMsg = ""
				s.loaded = false
				return s, s.Init()
			}
			return s, nil
		}
		if s.starting {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TopicsScreen) fail(err error) {
	logging.OrNop(s.svc.Log).Warn("catalog load failed", zap.Error(err))
	s.errMsg = err.Error()
}

// startCmd loads the topic's prompts. A session is built only once they
// have all arrived.
func (s *TopicsScreen) startCmd(t catalog.Topic) func() tea.Cmd {
	return func() tea.Cmd {
		s.starting = true
		cat := s.svc.Catalog
		return func() tea.Msg {
			prompts, err := cat.Prompts(context.Background(), t.ID)
			return promptsLoadedMsg{Topic: t, Prompts: prompts, Err: err}
		}
	}
}

func (s *TopicsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not start a test.\n\n%s\n\nPress R to retry.", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading topics...")
	}
	if len(s.topics) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No topics available.")
	}

	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Centered(theme.Subtitle, width, "Which part of life do you want to explore?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))

	if sel := s.menu.Selected; sel < len(s.topics) && s.topics[sel].Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.Card(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw-4).
				Render(s.topics[sel].Description), cw)))
	}
	if s.starting {
		b.WriteString("\n\n")
		b.WriteString(components.Centered(theme.Hint, width, "Loading prompts..."))
	}
	return b.String()
}
