package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/empathiz/internal/config"
	"github.com/abhisek/empathiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "empathiz",
	Short: "Emotional intelligence tests in your terminal",
	Long: "Empathiz presents everyday situations, scores your free-text answers on five " +
		"emotional-intelligence dimensions, and keeps a history of your results.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides EMPATHIZ_DB env var)")
	pf.String("catalog-url", "", "Base URL of the topic catalog service (overrides EMPATHIZ_CATALOG_URL)")
	pf.String("analysis-url", "", "Base URL of the answer analysis service (overrides EMPATHIZ_ANALYSIS_URL)")
	pf.String("voice-url", "", `Speech service WebSocket URL, or "mock" (overrides EMPATHIZ_VOICE_URL)`)

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and EMPATHIZ_* variables, applies flag overrides
// (highest priority), resolves the database path and validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	overrides := map[string]*string{
		"db":           &cfg.DBPath,
		"catalog-url":  &cfg.CatalogURL,
		"analysis-url": &cfg.AnalysisURL,
		"voice-url":    &cfg.VoiceURL,
	}
	for name, dst := range overrides {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			*dst = v
		}
	}

	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return config.Config{}, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(cfg.DBPath); err != nil {
		return config.Config{}, fmt.Errorf("resolve DB path: %w", err)
	}

	return cfg, cfg.Validate()
}

// openStore loads the configuration and opens the database.
func openStore(cmd *cobra.Command) (config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	st, err := openStoreAt(cfg.DBPath)
	return cfg, st, err
}

func openStoreAt(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
