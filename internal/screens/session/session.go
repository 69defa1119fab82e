package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/llm"
	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/router"
	"github.com/abhisek/empathiz/internal/screen"
	"github.com/abhisek/empathiz/internal/screens/summary"
	sess "github.com/abhisek/empathiz/internal/session"
	"github.com/abhisek/empathiz/internal/store"
	"github.com/abhisek/empathiz/internal/submission"
	"github.com/abhisek/empathiz/internal/ui/components"
	"github.com/abhisek/empathiz/internal/ui/layout"
	"github.com/abhisek/empathiz/internal/voice"
)

// recording identifies one voice recording and the prompt it writes to.
type recording struct {
	token  uint64
	prompt int
}

// SessionScreen implements screen.Screen for a running test.
type SessionScreen struct {
	svc   screen.Services
	topic catalog.Topic
	state *sess.Session
	sub   *submission.Submitter
	log   *zap.Logger

	input     components.AnswerBox
	boxPrompt int            // prompt the input is showing, -1 off prompt slots
	drafts    map[int]string // unsubmitted text per prompt
	inflight  map[int]bool
	errs      map[int]string
	notice    string

	voice     *voice.Adapter
	active    atomic.Pointer[recording] // read by adapter callbacks
	recording *recording
	tokens    uint64
	seq       atomic.Uint64
	lastSeq   uint64

	quitConfirm bool
	reviewErr   string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.BackInterceptor = (*SessionScreen)(nil)

// New creates a test screen over a freshly built session.
func New(svc screen.Services, topic catalog.Topic, state *sess.Session) *SessionScreen {
	s := &SessionScreen{
		svc:       svc,
		topic:     topic,
		state:     state,
		log:       logging.OrNop(svc.Log).Named("test"),
		input:     components.NewAnswerBox("Describe what you would do and why..."),
		boxPrompt: -1,
		drafts:    make(map[int]string),
		inflight:  make(map[int]bool),
		errs:      make(map[int]string),
	}
	s.sub = submission.New(state, svc.Analysis, svc.Events, svc.Log)
	s.voice = voice.NewAdapter(svc.Voice, voice.AdapterConfig{
		Lang:    svc.VoiceLang,
		Publish: s.publishVoice,
		OnError: func(err error) { s.voiceStopped(err) },
		OnEnd:   func() { s.voiceStopped(nil) },
		Logger:  svc.Log,
	})
	s.syncInput()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(
		s.sessionEvent(store.SessionStarted),
		s.input.Init(),
	)
}

func (s *SessionScreen) Title() string {
	return s.topic.Name
}

func (s *SessionScreen) InterceptBack() bool { return true }

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	nav := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Shift+Tab", Description: "Back"},
	}
	switch s.state.CurrentSlot().Slot.Kind {
	case sess.KindPrompt:
		return append([]layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+R", Description: "Voice"},
		}, append(nav, layout.KeyHint{Key: "Esc", Description: "Quit"})...)
	case sess.KindReview:
		return append([]layout.KeyHint{{Key: "Enter", Description: "See results"}}, nav...)
	}
	return append(nav, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *SessionScreen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width, height, s.state.Answered(), s.state.PromptCount())
	}
	v := s.state.CurrentSlot()
	switch v.Slot.Kind {
	case sess.KindPrompt:
		return s.renderPromptView(v, width, height)
	case sess.KindResult:
		return s.renderResultView(v, width)
	}
	return s.renderReviewView(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case voiceTextMsg:
		s.handleVoiceText(msg)
		return s, nil

	case voiceStoppedMsg:
		s.handleVoiceStopped(msg)
		return s, nil

	case sessionEventMsg:
		if msg.Err != nil {
			s.log.Warn("session event", zap.Error(msg.Err))
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editable() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			s.stopVoice()
			return s, tea.Batch(
				s.sessionEvent(store.SessionAbandoned),
				func() tea.Msg { return router.PopScreenMsg{} },
			)
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "tab":
		s.navigate(sess.Forward)
		return s, nil
	case "shift+tab":
		s.navigate(sess.Backward)
		return s, nil
	case "ctrl+s":
		return s, s.submit()
	case "ctrl+r":
		s.toggleVoice()
		return s, nil
	}

	switch s.state.CurrentSlot().Slot.Kind {
	case sess.KindReview:
		if key == "enter" {
			return s.finish()
		}
		return s, nil
	case sess.KindResult:
		if key == "enter" {
			s.navigate(sess.Forward)
		}
		return s, nil
	}

	if s.editable() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.drafts[s.boxPrompt] = s.input.Value()
		return s, cmd
	}
	return s, nil
}

// editable reports whether keystrokes go to the answer input.
func (s *SessionScreen) editable() bool {
	return s.boxPrompt >= 0 && s.recording == nil && !s.inflight[s.boxPrompt]
}

// navigate moves one reachable slot in dir. An active recording ends first.
func (s *SessionScreen) navigate(dir sess.Direction) {
	s.stopVoice()
	s.saveDraft()
	if s.state.Advance(dir) {
		s.notice = ""
		s.reviewErr = ""
	}
	s.syncInput()
}

// saveDraft keeps the input's text for the prompt it is showing.
func (s *SessionScreen) saveDraft() {
	if s.boxPrompt >= 0 {
		s.drafts[s.boxPrompt] = s.input.Value()
	}
}

// syncInput loads the current prompt's draft, or its stored answer, into
// the input when the position has moved to a different prompt.
func (s *SessionScreen) syncInput() {
	v := s.state.CurrentSlot()
	if v.Slot.Kind != sess.KindPrompt {
		s.boxPrompt = -1
		return
	}
	i := v.Slot.PromptIndex
	if s.boxPrompt == i {
		return
	}
	text, ok := s.drafts[i]
	if !ok {
		text = v.Answer
	}
	s.input.SetValue(text)
	s.boxPrompt = i
}

// submit sends the current prompt's text for analysis. The result comes
// back as a submitDoneMsg addressed by prompt index.
func (s *SessionScreen) submit() tea.Cmd {
	v := s.state.CurrentSlot()
	if v.Slot.Kind != sess.KindPrompt {
		return nil
	}
	i := v.Slot.PromptIndex
	if s.inflight[i] {
		return nil
	}
	s.stopVoice()
	text := s.input.Value()
	s.drafts[i] = text

	s.inflight[i] = true
	delete(s.errs, i)
	s.notice = ""

	sub := s.sub
	return func() tea.Msg {
		_, err := sub.Submit(context.Background(), i, text)
		return submitDoneMsg{PromptIndex: i, Err: err}
	}
}

func (s *SessionScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	i := msg.PromptIndex
	if errors.Is(msg.Err, submission.ErrPending) {
		return s, nil
	}
	delete(s.inflight, i)

	if msg.Err != nil {
		s.errs[i] = submitErrorText(msg.Err)
		return s, nil
	}

	// The result slot is filled either way; only a user still looking at
	// this prompt is taken to it.
	if s.state.Position() == sess.PromptPosition(i) {
		s.saveDraft()
		if err := s.state.ShowResult(i); err != nil {
			s.log.Warn("show result", zap.Int("prompt_index", i), zap.Error(err))
		}
		s.syncInput()
	}
	return s, nil
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, submission.ErrEmptyAnswer):
		return "Write an answer before submitting."
	case errors.Is(err, context.DeadlineExceeded):
		return "The analysis service took too long. Press Ctrl+S to try again."
	}
	if msg, ok := llm.Describe(err); ok {
		return msg + " Press Ctrl+S to try again."
	}
	return err.Error() + ". Press Ctrl+S to try again."
}

// finish builds the report and shows the summary.
func (s *SessionScreen) finish() (screen.Screen, tea.Cmd) {
	rep, err := review.BuildReport(s.state, s.topic)
	if err != nil {
		if errors.Is(err, review.ErrReviewLocked) {
			s.reviewErr = "Submit every prompt to unlock your results."
		} else {
			s.reviewErr = err.Error()
		}
		return s, nil
	}
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(s.svc, rep)}
	}
}

// sessionEvent records a lifecycle transition.
func (s *SessionScreen) sessionEvent(action string) tea.Cmd {
	events := s.svc.Events
	if events == nil {
		return nil
	}
	data := store.SessionEventData{
		SessionID:    s.state.ID(),
		Action:       action,
		TopicID:      s.state.TopicID(),
		PromptCount:  s.state.PromptCount(),
		Answered:     s.state.Answered(),
		DurationSecs: int(time.Since(s.state.StartedAt()).Seconds()),
	}
	return func() tea.Msg {
		return sessionEventMsg{Err: events.AppendSessionEvent(context.Background(), data)}
	}
}

func (s *SessionScreen) Status() string {
	status := ""
	if s.recording != nil {
		status = "● REC  "
	}
	return status + progressText(s.state.Answered(), s.state.PromptCount())
}
