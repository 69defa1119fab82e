package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/app"
	"github.com/abhisek/empathiz/internal/coaching"
	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/screen"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	st, err := openStoreAt(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := st.EventRepo()
	cat, err := buildCatalog(ctx, cfg, st, log)
	if err != nil {
		return err
	}
	svc, provider, err := buildAnalysis(ctx, cfg, events, log)
	if err != nil {
		return err
	}
	engine, err := buildVoice(cfg, log)
	if err != nil {
		return err
	}

	bus := review.NewBus()
	defer bus.Close()
	recorder := review.NewRecorder(st.ReviewRepo(), events, log)
	if err := recorder.Run(ctx, bus); err != nil {
		return err
	}

	services := screen.Services{
		Catalog:   cat,
		Analysis:  svc,
		Voice:     engine,
		VoiceLang: cfg.VoiceLang,
		Events:    events,
		Reviews:   st.ReviewRepo(),
		Publisher: review.NewPublisher(bus, log),
		Log:       log,
	}
	if cfg.Coaching && provider != nil {
		services.Coach = coaching.NewService(provider, coaching.DefaultConfig())
	}
	if engine == nil {
		fmt.Fprintln(os.Stderr, "Voice input disabled (set EMPATHIZ_VOICE_URL to enable).")
	}

	log.Info("starting",
		zap.String("version", version),
		zap.String("db", cfg.DBPath),
		zap.Bool("voice", engine != nil),
		zap.Bool("coaching", services.Coach != nil),
	)
	return app.Run(services)
}
