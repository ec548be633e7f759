package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/tui"
)

// dashboardOptions builds the dashboard options from the loaded config.
func dashboardOptions(ctx context.Context, a *app, refresh time.Duration) tui.Options {
	return tui.Options{
		Context:         ctx,
		Backend:         a.cfg.Storage.Backend,
		DBPath:          a.cfg.DBPath(),
		Currency:        a.cfg.Display.Currency,
		AccentColor:     a.cfg.Display.AccentColor,
		RefreshInterval: refresh,
	}
}

// runDashboard runs the dashboard full screen until the user quits.
func runDashboard(ctx context.Context, a *app, refresh time.Duration) error {
	model := tui.New(a.repo, dashboardOptions(ctx, a, refresh))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	return finishTUI(program)
}

// finishTUI runs the bubbletea program and returns the last load error, if
// any. Context cancellation is treated as a normal shutdown.
func finishTUI(program *tea.Program) error {
	finalModel, err := program.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if m, ok := finalModel.(tui.Model); ok && m.Err() != nil {
		if errors.Is(m.Err(), context.Canceled) {
			return nil
		}
		return m.Err()
	}

	return nil
}
