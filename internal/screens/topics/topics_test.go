package topics

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/screen"
)

// fakeCatalog implements catalog.Catalog for testing.
type fakeCatalog struct {
	topics  []catalog.Topic
	prompts map[int64][]catalog.Prompt
	err     error
}

func (f *fakeCatalog) Topics(context.Context) ([]catalog.Topic, error) {
	if f.err != nil {
		return nil, &catalog.LoadError{Err: f.err}
	}
	return f.topics, nil
}

func (f *fakeCatalog) Prompts(_ context.Context, id int64) ([]catalog.Prompt, error) {
	if f.err != nil {
		return nil, &catalog.LoadError{TopicID: id, Err: f.err}
	}
	return f.prompts[id], nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		topics: []catalog.Topic{
			{ID: 1, Name: "Love"},
			{ID: 2, Name: "Workplace", Description: "Colleagues and managers"},
		},
		prompts: map[int64][]catalog.Prompt{
			2: {{ID: 21, TopicID: 2, Question: "What do you do?"}},
		},
	}
}

func load(t *testing.T, s *TopicsScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestTopicsScreen_ListsTopics(t *testing.T) {
	s := New(screen.Services{Catalog: newCatalog()})
	load(t, s)

	view := s.View(100, 30)
	if !strings.Contains(view, "Love") || !strings.Contains(view, "Workplace") {
		t.Error("expected both topics in the view")
	}
}

func TestTopicsScreen_StartsSession(t *testing.T) {
	s := New(screen.Services{Catalog: newCatalog()})
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a prompt load command")
	}
	if !s.starting {
		t.Error("expected starting state while prompts load")
	}

	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected the test screen to be pushed")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected PushScreenMsg")
	}
}

func TestTopicsScreen_EmptyTopic(t *testing.T) {
	s := New(screen.Services{Catalog: newCatalog()})
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(cmd())
	if cmd != nil {
		t.Error("expected no session for a topic without prompts")
	}
	if !strings.Contains(s.View(100, 30), "no prompts") {
		t.Error("expected the empty topic message")
	}
}

func TestTopicsScreen_LoadFailure(t *testing.T) {
	cat := newCatalog()
	cat.err = errors.New("connection refused")
	s := New(screen.Services{Catalog: cat})
	load(t, s)

	if !strings.Contains(s.View(100, 30), "connection refused") {
		t.Error("expected the load error in the view")
	}

	cat.err = nil
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a retry command")
	}
	s.Update(cmd())
	if s.errMsg != "" || len(s.topics) != 2 {
		t.Errorf("expected topics after retry, err=%q topics=%d", s.errMsg, len(s.topics))
	}
}
