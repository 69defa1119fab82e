package voice

import (
	"context"
	"sync"
	"time"
)

// MockEngine is a scripted Engine. Script is replayed at the start of every
// recording, Delay apart; further events can be pushed with Emit.
type MockEngine struct {
	Script   []Event
	Delay    time.Duration
	StartErr error

	mu      sync.Mutex
	current chan Event
	langs   []string
}

// NewMockEngine creates a MockEngine that replays script.
func NewMockEngine(script ...Event) *MockEngine {
	return &MockEngine{Script: script}
}

func (m *MockEngine) Start(ctx context.Context, lang string) (<-chan Event, error) {
	if m.StartErr != nil {
		return nil, m.StartErr
	}

	in := make(chan Event, 64)
	out := make(chan Event)

	m.mu.Lock()
	m.current = in
	m.langs = append(m.langs, lang)
	script := append([]Event(nil), m.Script...)
	delay := m.Delay
	m.mu.Unlock()

	go func() {
		defer close(out)
		for _, ev := range script {
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Emit queues ev on the current recording. It is dropped when no recording
// has been started or End was called.
func (m *MockEngine) Emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current <- ev
	}
}

// End finishes the current recording as if the speaker went silent.
func (m *MockEngine) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		close(m.current)
		m.current = nil
	}
}

// Langs returns the language tag of every Start call.
func (m *MockEngine) Langs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.langs...)
}
