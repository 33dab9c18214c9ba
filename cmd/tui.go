package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/store"
	"github.com/theirongolddev/claimsdash/internal/tui"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
	"github.com/theirongolddev/claimsdash/internal/worker"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	var kv store.KV
	db, err := store.Open(store.DefaultPath())
	if err != nil {
		s.log.Warn("preferences unavailable, using memory store", zap.Error(err))
		kv = store.NewMemory()
	} else {
		defer func() { _ = db.Close() }()
		kv = db
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := worker.New(s.client, s.log.Named("worker"))
	go w.Run(ctx)

	app := tui.NewApp(tui.Options{
		Worker:  w,
		Backend: s.client,
		Store:   kv,
		Logger:  s.log.Named("tui"),
		Timeout: s.timeout,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
