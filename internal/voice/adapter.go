package voice

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/logging"
)

// State is the adapter's recording state.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// AdapterConfig wires an Adapter to its caller.
type AdapterConfig struct {
	// Lang is the recognition language tag, e.g. "en-US".
	Lang string

	// Publish receives the full buffer text after every event. It runs
	// with the adapter lock held and must not call back into the adapter.
	Publish func(text string)

	// OnError receives engine failures. The adapter is already Idle when
	// it runs.
	OnError func(err error)

	// OnEnd runs when the engine closes its stream on its own. The
	// adapter is already Idle when it runs.
	OnEnd func()

	Logger *zap.Logger
}

// Adapter merges engine events into an answer buffer.
//
// While recording the published text is always baseline + finalized
// segments in arrival order + the latest interim guess. Stop returns to
// Idle; nothing is published after Stop returns and the buffer keeps its
// last published value.
type Adapter struct {
	engine Engine
	cfg    AdapterConfig
	log    *zap.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	cancel      context.CancelFunc
	accumulator string
	text        string
}

// NewAdapter creates an adapter over engine. A nil engine makes every Start
// fail with ErrUnsupported.
func NewAdapter(engine Engine, cfg AdapterConfig) *Adapter {
	if cfg.Lang == "" {
		cfg.Lang = "en-US"
	}
	return &Adapter{
		engine: engine,
		cfg:    cfg,
		log:    logging.OrNop(cfg.Logger).Named("voice"),
	}
}

// State returns the current recording state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Text returns the last published buffer value.
func (a *Adapter) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

// Start begins recording on top of baseline, the buffer's current text.
// On failure the adapter stays Idle.
func (a *Adapter) Start(ctx context.Context, baseline string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine == nil {
		return ErrUnsupported
	}
	if a.state == Recording {
		return ErrAlreadyRecording
	}

	rctx, cancel := context.WithCancel(ctx)
	events, err := a.engine.Start(rctx, a.cfg.Lang)
	if err != nil {
		cancel()
		if errors.Is(err, ErrUnsupported) {
			return err
		}
		return &EngineError{Reason: err.Error()}
	}

	a.generation++
	a.state = Recording
	a.cancel = cancel
	a.accumulator = baseline
	a.text = baseline

	go a.consume(a.generation, events)
	a.log.Debug("recording started", zap.String("lang", a.cfg.Lang))
	return nil
}

// Stop ends the recording. Stopping an idle adapter is a no-op.
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Recording {
		return nil
	}
	a.finish()
	a.log.Debug("recording stopped")
	return nil
}

// finish moves to Idle and invalidates the running consumer. Callers hold
// a.mu.
func (a *Adapter) finish() {
	a.state = Idle
	a.generation++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Adapter) consume(gen uint64, events <-chan Event) {
	for ev := range events {
		if !a.apply(gen, ev) {
			break
		}
	}
	// Drain so a blocked engine can observe cancellation and exit.
	for range events {
	}

	a.mu.Lock()
	ended := a.generation == gen && a.state == Recording
	if ended {
		a.finish()
	}
	a.mu.Unlock()

	if ended {
		a.log.Debug("speech engine ended")
		if a.cfg.OnEnd != nil {
			a.cfg.OnEnd()
		}
	}
}

// apply merges one event. It returns false once the event belongs to a
// recording that is no longer current.
func (a *Adapter) apply(gen uint64, ev Event) bool {
	a.mu.Lock()
	if a.generation != gen || a.state != Recording {
		a.mu.Unlock()
		return false
	}

	if ev.Err != nil {
		a.finish()
		a.mu.Unlock()
		a.log.Warn("speech engine error", zap.Error(ev.Err))
		if a.cfg.OnError != nil {
			a.cfg.OnError(&EngineError{Reason: ev.Err.Error()})
		}
		return false
	}

	a.accumulator += strings.Join(ev.Finalized, "")
	text := a.accumulator
	if ev.HasInterim {
		text += ev.Interim
	}
	a.text = text
	if a.cfg.Publish != nil {
		a.cfg.Publish(text)
	}
	a.mu.Unlock()
	return true
}
