package submission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/session"
	"github.com/abhisek/empathiz/internal/store"
)

// fakeService answers from a function and records what it was asked.
type fakeService struct {
	mu    sync.Mutex
	calls []catalog.Prompt
	fn    func(ctx context.Context, p catalog.Prompt, answer string) (*analysis.Result, error)
}

func (f *fakeService) Analyze(ctx context.Context, p catalog.Prompt, answer string) (*analysis.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	return f.fn(ctx, p, answer)
}

func okResult(payload string) func(context.Context, catalog.Prompt, string) (*analysis.Result, error) {
	return func(context.Context, catalog.Prompt, string) (*analysis.Result, error) {
		return analysis.ParseResult([]byte(payload))
	}
}

func newSession() *session.Session {
	return session.New(4, []catalog.Prompt{
		{ID: 11, TopicID: 4, Context: "Your friend cancels plans again.", Question: "How do you respond?"},
		{ID: 12, TopicID: 4, Context: "A friend forgets your birthday.", Question: "What do you say?"},
	})
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSubmit_StoresResultBySlot(t *testing.T) {
	st := openStore(t)
	sess := newSession()
	svc := &fakeService{fn: okResult(`{"scores":{"empathy":7},"reasoning":{"empathy":"kind"}}`)}
	sub := New(sess, svc, st.EventRepo(), nil)

	res, err := sub.Submit(context.Background(), 1, "  I tell them it hurt a little. ")
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, int64(12), svc.calls[0].ID)

	answer, ok := sess.Answer(1)
	require.True(t, ok)
	assert.Equal(t, "  I tell them it hurt a little. ", answer)

	slot, _ := sess.SlotAt(session.ResultPosition(1))
	assert.Same(t, res, slot.Result)
	assert.Equal(t, 0, sess.Position())

	events, err := st.EventRepo().QueryAnswerEvents(context.Background(), store.QueryOpts{SessionID: sess.ID()})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, int64(12), events[0].PromptID)
	assert.JSONEq(t, `{"scores":{"empathy":7},"reasoning":{"empathy":"kind"}}`, events[0].Result)
}

func TestSubmit_EmptyAnswer(t *testing.T) {
	sess := newSession()
	svc := &fakeService{fn: okResult(`{"scores":{},"reasoning":{}}`)}
	sub := New(sess, svc, nil, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := sub.Submit(context.Background(), 0, text)
		assert.ErrorIs(t, err, ErrEmptyAnswer)
	}
	assert.Empty(t, svc.calls)
	_, ok := sess.Answer(0)
	assert.False(t, ok)
}

func TestSubmit_FailureKeepsAnswerAndSlot(t *testing.T) {
	st := openStore(t)
	sess := newSession()
	first := &fakeService{fn: okResult(`{"scores":{"empathy":4},"reasoning":{}}`)}
	_, err := New(sess, first, nil, nil).Submit(context.Background(), 0, "first try")
	require.NoError(t, err)
	before, _ := sess.SlotAt(session.ResultPosition(0))

	boom := errors.New("connection refused")
	failing := &fakeService{fn: func(context.Context, catalog.Prompt, string) (*analysis.Result, error) {
		return nil, boom
	}}
	sub := New(sess, failing, st.EventRepo(), nil)

	_, err = sub.Submit(context.Background(), 0, "second try")
	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.PromptIndex)
	assert.ErrorIs(t, err, boom)

	answer, _ := sess.Answer(0)
	assert.Equal(t, "second try", answer)
	after, _ := sess.SlotAt(session.ResultPosition(0))
	assert.Same(t, before.Result, after.Result)
	assert.Len(t, failing.calls, 1, "no automatic retry")
	assert.False(t, sub.Pending(0))

	events, err := st.EventRepo().QueryAnswerEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Contains(t, events[0].ErrorMessage, "connection refused")
}

func TestSubmit_PayloadErrorIsSubmissionFailure(t *testing.T) {
	sess := newSession()
	svc := &fakeService{fn: okResult(`{"scores":{"empathy":"high"}}`)}

	_, err := New(sess, svc, nil, nil).Submit(context.Background(), 0, "answer")
	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	var pe *analysis.PayloadError
	assert.ErrorAs(t, err, &pe)
	assert.False(t, sess.CanReview())
}

func TestSubmit_DoubleSubmissionWhilePending(t *testing.T) {
	sess := newSession()
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{fn: func(ctx context.Context, p catalog.Prompt, a string) (*analysis.Result, error) {
		close(started)
		<-release
		return analysis.ParseResult([]byte(`{"scores":{"empathy":5},"reasoning":{}}`))
	}}
	sub := New(sess, svc, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), 0, "first")
		done <- err
	}()
	<-started

	assert.True(t, sub.Pending(0))
	_, err := sub.Submit(context.Background(), 0, "second")
	assert.ErrorIs(t, err, ErrPending)

	answer, _ := sess.Answer(0)
	assert.Equal(t, "first", answer, "a rejected double submission leaves the answer alone")

	close(release)
	require.NoError(t, <-done)
	assert.False(t, sub.Pending(0))
	assert.Len(t, svc.calls, 1)
}

func TestSubmit_DifferentPromptsConcurrently(t *testing.T) {
	sess := newSession()
	svc := &fakeService{fn: okResult(`{"scores":{"communication":6},"reasoning":{}}`)}
	sub := New(sess, svc, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := sub.Submit(context.Background(), i, "answer")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.True(t, sess.CanReview())
}

func TestSubmit_LateCompletionAfterNavigation(t *testing.T) {
	sess := newSession()
	release := make(chan struct{})
	svc := &fakeService{fn: func(context.Context, catalog.Prompt, string) (*analysis.Result, error) {
		<-release
		return analysis.ParseResult([]byte(`{"scores":{"empathy":9},"reasoning":{}}`))
	}}
	sub := New(sess, svc, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), 0, "answer")
		done <- err
	}()

	require.True(t, sess.Advance(session.Forward))
	require.Equal(t, session.PromptPosition(1), sess.Position())

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, session.PromptPosition(1), sess.Position())
	slot, _ := sess.SlotAt(session.ResultPosition(0))
	assert.True(t, slot.Filled())
}

func TestSubmit_UnknownPrompt(t *testing.T) {
	sub := New(newSession(), &fakeService{fn: okResult(`{}`)}, nil, nil)
	_, err := sub.Submit(context.Background(), 7, "answer")
	assert.ErrorIs(t, err, session.ErrPromptIndex)
}
