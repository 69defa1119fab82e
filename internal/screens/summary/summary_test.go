package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/screen"
)

func testReport() *review.Report {
	return &review.Report{
		ID:        "rep-1",
		SessionID: "sess-1",
		TopicName: "Workplace",
		Duration:  4 * time.Minute,
		Overall:   6.4,
		Band:      "good",
		Feedback:  "Your emotional intelligence is good.",
		Averages: []review.DimensionAverage{
			{Dimension: "self-awareness", Label: "Self-awareness", Average: 7, Samples: 1},
			{Dimension: "self-regulation", Label: "Self-regulation", Average: 5, Samples: 1},
		},
		Prompts: []review.PromptReport{
			{
				PromptIndex: 0,
				Question:    "What do you do?",
				Answer:      "I talk to them after the meeting.",
				Dimensions: []review.DimensionScore{
					{Dimension: "self-awareness", Label: "Self-awareness", Score: 7, Present: true},
					{Dimension: "empathy", Label: "Empathy"},
				},
				Overall: 6.4,
				Band:    "good",
			},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(screen.Services{}, testReport())
	if s.Title() != "Your Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Your Results")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(screen.Services{}, testReport())
	s.Update(handoffDoneMsg{Coaching: "Pause before you answer."})

	view := s.View(100, 200)
	for _, want := range []string{"Workplace complete!", "6.4", "Self-awareness", "n/a", "Pause before you answer."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_HandoffWithoutCollaborators(t *testing.T) {
	s := New(screen.Services{}, testReport())
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a handoff command")
	}
	msg, ok := cmd().(handoffDoneMsg)
	if !ok {
		t.Fatalf("expected handoffDoneMsg, got %T", msg)
	}
	if msg.Err != nil || msg.Coaching != "" {
		t.Errorf("unexpected handoff result %+v", msg)
	}
	if s.Status() == "" {
		t.Error("expected a saving status before the handoff completes")
	}
	s.Update(msg)
	if s.Status() != "" {
		t.Errorf("Status = %q after handoff, want empty", s.Status())
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(screen.Services{}, testReport())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected Enter to return home")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(screen.Services{}, testReport())
	if !s.InterceptBack() {
		t.Fatal("expected summary to handle Esc itself")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc")
	}
}

func TestSummaryScreen_Scroll(t *testing.T) {
	s := New(screen.Services{}, testReport())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.View(100, 5)
	if s.offset != 1 {
		t.Errorf("offset = %d, want 1", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 0 {
		t.Errorf("offset = %d, want 0", s.offset)
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(screen.Services{}, testReport())
	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(s.KeyHints()))
	}
}
