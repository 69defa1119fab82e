package screen

import (
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/coaching"
	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/store"
	"github.com/abhisek/empathiz/internal/ui/layout"
	"github.com/abhisek/empathiz/internal/voice"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that show a short
// status on the right side of the header.
type StatusProvider interface {
	Status() string
}

// BackInterceptor is implemented by screens that handle Esc themselves
// (e.g. to confirm before leaving). When InterceptBack returns true the
// key is forwarded instead of popping the screen.
type BackInterceptor interface {
	InterceptBack() bool
}

// Services are the collaborators shared by all screens. Nil optional
// fields disable the feature that uses them.
type Services struct {
	Catalog   catalog.Catalog
	Analysis  analysis.Service
	Voice     voice.Engine // optional
	VoiceLang string
	Events    store.EventRepo
	Reviews   store.ReviewRepo  // optional
	Publisher *review.Publisher // optional
	Coach     *coaching.Service // optional
	Log       *zap.Logger

	// Send delivers a message to the running program from any goroutine.
	Send func(tea.Msg)
}
