package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/llm"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/screen"
	sess "github.com/abhisek/empathiz/internal/session"
	"github.com/abhisek/empathiz/internal/store"
	"github.com/abhisek/empathiz/internal/voice"
)

// mockAnalysis implements analysis.Service for testing.
type mockAnalysis struct {
	payload string
	err     error
}

func (m *mockAnalysis) Analyze(_ context.Context, _ catalog.Prompt, _ string) (*analysis.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return analysis.ParseResult([]byte(m.payload))
}

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	mu            sync.Mutex
	sessionEvents []store.SessionEventData
	answerEvents  []store.AnswerEventData
}

func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionEvents = append(m.sessionEvents, data)
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answerEvents = append(m.answerEvents, data)
	return nil
}
func (m *mockEventRepo) QueryLLMEvents(_ context.Context, _ store.QueryOpts) ([]store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) GetLLMEvent(_ context.Context, _ int) (*store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByPurpose(_ context.Context) ([]store.LLMUsage, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByModel(_ context.Context) ([]store.LLMUsage, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryAnswerEvents(_ context.Context, _ store.QueryOpts) ([]store.AnswerEventRecord, error) {
	return nil, nil
}

const scoredPayload = `{"scores":{"self_awareness":8,"empathy":7,"self_regulation":6,"communication":7,"decision_making":7},` +
	`"reasoning":{"empathy":"You named their feelings."}}`

var (
	ctrlS    = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	ctrlR    = tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	tab      = tea.KeyPressMsg{Code: tea.KeyTab}
	shiftTab = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	enter    = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc      = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func testTopic() catalog.Topic {
	return catalog.Topic{ID: 2, Name: "Workplace"}
}

func testPrompts() []catalog.Prompt {
	return []catalog.Prompt{
		{ID: 21, TopicID: 2, Context: "A colleague presents your idea as their own.", Question: "What do you do?"},
		{ID: 22, TopicID: 2, Context: "Your manager criticises you in front of the team.", Question: "How do you respond?"},
	}
}

func newTestScreen(svc screen.Services) (*SessionScreen, *mockEventRepo) {
	events := &mockEventRepo{}
	if svc.Analysis == nil {
		svc.Analysis = &mockAnalysis{payload: scoredPayload}
	}
	svc.Events = events
	return New(svc, testTopic(), sess.New(2, testPrompts())), events
}

// submitAndWait presses Ctrl+S and runs the returned command.
func submitAndWait(t *testing.T, s *SessionScreen) submitDoneMsg {
	t.Helper()
	_, cmd := s.Update(ctrlS)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(submitDoneMsg)
	if !ok {
		t.Fatalf("expected submitDoneMsg, got %T", msg)
	}
	return msg
}

func TestSessionScreen_StartsOnFirstPrompt(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	v := s.state.CurrentSlot()
	if v.Slot.Kind != sess.KindPrompt || v.Slot.PromptIndex != 0 {
		t.Errorf("expected prompt 0, got %s %d", v.Slot.Kind, v.Slot.PromptIndex)
	}
	if s.Title() != "Workplace" {
		t.Errorf("Title = %q, want Workplace", s.Title())
	}
	if !strings.Contains(s.View(100, 30), "What do you do?") {
		t.Error("expected the question in the view")
	}
}

func TestSessionScreen_SubmitShowsResult(t *testing.T) {
	s, events := newTestScreen(screen.Services{})
	s.input.SetValue("I talk to them privately after the meeting.")

	msg := submitAndWait(t, s)
	if msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}
	if !s.inflight[0] {
		t.Error("expected prompt 0 to be in flight before completion")
	}
	s.Update(msg)

	if s.inflight[0] {
		t.Error("expected in-flight flag cleared")
	}
	if got := s.state.Position(); got != sess.ResultPosition(0) {
		t.Errorf("position = %d, want result slot %d", got, sess.ResultPosition(0))
	}
	if len(events.answerEvents) != 1 || !events.answerEvents[0].Success {
		t.Errorf("expected one successful answer event, got %+v", events.answerEvents)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Overall 7.0") {
		t.Error("expected overall score 7.0 in the result view")
	}
	if !strings.Contains(view, "You named their feelings.") {
		t.Error("expected reasoning in the result view")
	}
}

func TestSessionScreen_LateResultKeepsPosition(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	s.input.SetValue("I ask for credit politely.")

	_, cmd := s.Update(ctrlS)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}

	// Result 0 is still empty, so Tab skips to prompt 1.
	s.Update(tab)
	if got := s.state.Position(); got != sess.PromptPosition(1) {
		t.Fatalf("position = %d, want prompt 1", got)
	}

	s.Update(cmd())
	if got := s.state.Position(); got != sess.PromptPosition(1) {
		t.Errorf("late result moved position to %d", got)
	}
	slot, _ := s.state.SlotAt(sess.ResultPosition(0))
	if !slot.Filled() {
		t.Error("expected result 0 to be filled")
	}
}

func TestSessionScreen_DoubleSubmitRefused(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	s.input.SetValue("Answer")

	_, first := s.Update(ctrlS)
	_, second := s.Update(ctrlS)
	if first == nil {
		t.Fatal("expected the first submit to start")
	}
	if second != nil {
		t.Error("expected a second submit for the same prompt to be refused")
	}
}

func TestSessionScreen_SubmitFailureKeepsAnswer(t *testing.T) {
	s, events := newTestScreen(screen.Services{
		Analysis: &mockAnalysis{err: errors.New("service unavailable")},
	})
	s.input.SetValue("My careful answer")

	s.Update(submitAndWait(t, s))

	if got := s.state.Position(); got != sess.PromptPosition(0) {
		t.Errorf("position = %d, want prompt 0", got)
	}
	if s.input.Value() != "My careful answer" {
		t.Errorf("input = %q, want the answer kept", s.input.Value())
	}
	if !strings.Contains(s.errs[0], "service unavailable") {
		t.Errorf("errs[0] = %q, want the failure", s.errs[0])
	}
	if len(events.answerEvents) != 1 || events.answerEvents[0].Success {
		t.Errorf("expected one failed answer event, got %+v", events.answerEvents)
	}

	// The user may resubmit after a failure.
	if _, cmd := s.Update(ctrlS); cmd == nil {
		t.Error("expected resubmission to be allowed")
	}
}

func TestSessionScreen_ModelFailureMessage(t *testing.T) {
	s, _ := newTestScreen(screen.Services{
		Analysis: &mockAnalysis{err: fmt.Errorf("LLM analysis failed: %w", &llm.ErrRateLimit{Err: errors.New("429")})},
	})
	s.input.SetValue("I would wait and ask later.")

	s.Update(submitAndWait(t, s))
	if !strings.Contains(s.errs[0], "busy") || !strings.Contains(s.errs[0], "Ctrl+S") {
		t.Errorf("errs[0] = %q, want the rate limit message", s.errs[0])
	}
}

func TestSessionScreen_EmptyAnswer(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	s.input.SetValue("   ")

	s.Update(submitAndWait(t, s))
	if !strings.Contains(s.errs[0], "Write an answer") {
		t.Errorf("errs[0] = %q, want an empty answer message", s.errs[0])
	}
}

func TestSessionScreen_DraftsFollowNavigation(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	s.input.SetValue("first draft")

	s.Update(tab)
	if s.input.Value() != "" {
		t.Errorf("prompt 1 input = %q, want empty", s.input.Value())
	}
	s.input.SetValue("second draft")

	s.Update(shiftTab)
	if s.input.Value() != "first draft" {
		t.Errorf("prompt 0 input = %q, want first draft", s.input.Value())
	}
}

func TestSessionScreen_ReviewGate(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})

	// Prompt 0 -> prompt 1 -> review; both results are empty.
	s.Update(tab)
	s.Update(tab)
	if s.state.CurrentSlot().Slot.Kind != sess.KindReview {
		t.Fatal("expected to reach the review slot")
	}
	_, cmd := s.Update(enter)
	if cmd != nil {
		t.Error("expected review to be locked")
	}
	if s.reviewErr == "" {
		t.Error("expected a locked review message")
	}

	for i := 0; i < 2; i++ {
		if err := s.state.ShowPrompt(i); err != nil {
			t.Fatal(err)
		}
		s.syncInput()
		s.input.SetValue("an answer")
		s.Update(submitAndWait(t, s))
	}

	s.Update(tab)
	if s.state.CurrentSlot().Slot.Kind != sess.KindReview {
		t.Fatal("expected to reach the review slot")
	}
	_, cmd = s.Update(enter)
	if cmd == nil {
		t.Fatal("expected review to open")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected the summary screen to be pushed")
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, events := newTestScreen(screen.Services{})
	if !s.InterceptBack() {
		t.Fatal("expected the test screen to handle Esc")
	}

	s.Update(esc)
	if !s.quitConfirm {
		t.Fatal("expected quit confirmation")
	}
	s.Update(esc)
	if s.quitConfirm {
		t.Fatal("expected Esc to dismiss the confirmation")
	}

	s.Update(esc)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected leave command")
	}
	if s.quitConfirm {
		t.Error("expected confirmation closed")
	}

	s.sessionEvent(store.SessionAbandoned)()
	if len(events.sessionEvents) != 1 || events.sessionEvents[0].Action != store.SessionAbandoned {
		t.Errorf("expected an abandon event, got %+v", events.sessionEvents)
	}
}

func TestSessionScreen_VoiceUnavailable(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	s.Update(ctrlR)
	if s.recording != nil {
		t.Error("expected no recording without an engine")
	}
	if !strings.Contains(s.notice, "not available") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestSessionScreen_VoiceMergesIntoInput(t *testing.T) {
	msgs := make(chan tea.Msg, 16)
	eng := voice.NewMockEngine()
	s, _ := newTestScreen(screen.Services{
		Voice: eng,
		Send:  func(m tea.Msg) { msgs <- m },
	})
	s.input.SetValue("I would ")

	s.Update(ctrlR)
	if s.recording == nil {
		t.Fatal("expected recording to start")
	}

	eng.Emit(voice.Event{Finalized: []string{"listen first"}, Interim: " and", HasInterim: true})

	select {
	case m := <-msgs:
		s.Update(m)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for voice text")
	}
	if got := s.input.Value(); got != "I would listen first and" {
		t.Errorf("input = %q", got)
	}

	// Stale messages from an older sequence are dropped.
	s.Update(voiceTextMsg{Token: s.recording.token, Seq: 0, PromptIndex: 0, Text: "stale"})
	if got := s.input.Value(); got != "I would listen first and" {
		t.Errorf("stale message applied: %q", got)
	}

	s.Update(ctrlR)
	if s.recording != nil {
		t.Error("expected recording to stop")
	}
	if s.voice.State() != voice.Idle {
		t.Error("expected adapter idle")
	}
}

func TestSessionScreen_StartEvent(t *testing.T) {
	s, events := newTestScreen(screen.Services{})
	s.sessionEvent(store.SessionStarted)()

	if len(events.sessionEvents) != 1 {
		t.Fatalf("expected one session event, got %d", len(events.sessionEvents))
	}
	ev := events.sessionEvents[0]
	if ev.Action != store.SessionStarted || ev.PromptCount != 2 || ev.SessionID != s.state.ID() {
		t.Errorf("unexpected start event %+v", ev)
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _ := newTestScreen(screen.Services{})
	hints := s.KeyHints()
	if len(hints) == 0 || hints[0].Key != "Ctrl+S" {
		t.Errorf("expected submit hint first, got %+v", hints)
	}
}
