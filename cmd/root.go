// Package cmd implements the claimsdash CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/config"
)

var (
	flagAPIURL  string
	flagTimeout time.Duration
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "claimsdash",
	Short: "Insurance claims dashboard",
	Long:  "Browse, search, and file insurance claims against the claims API.",
	RunE:  runTUI,

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Claims API base URL (overrides config and CLAIMS_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// session is the shared setup used by all commands.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	client  *api.Client
	timeout time.Duration
}

// openSession loads config, applies flag overrides, and builds the logger
// and API client.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	timeout := cfg.Timeout()
	if flagTimeout > 0 {
		timeout = flagTimeout
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		// Logging is best-effort.
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Logging disabled: %v\n", err)
		}
		log = zap.NewNop()
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(timeout),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring API client: %w", err)
	}

	log.Debug("session opened",
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", timeout),
	)
	return &session{cfg: cfg, log: log, client: client, timeout: timeout}, nil
}

func (s *session) Close() {
	_ = s.log.Sync()
}
