// Package main is the entry point for the pokertrack CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/config"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "pokertrack/no-store"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signalContext()
	defer stop()

	a := &app{}
	defer a.close()
	if err := execute(ctx, rootCmd(a)); err != nil {
		return 1
	}
	return 0
}

// app carries the state shared by every command. setup fills it before
// the command runs.
type app struct {
	cfg   config.Config
	store store.Store
	repo  *repo.Repository
}

func rootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pokertrack",
		Short:         "Track poker tournaments, sessions and bankroll",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "path to pokertrack.toml (default: search upward from the working directory)")
	root.PersistentFlags().String("db", "", "database file, overrides [storage] path")

	root.AddCommand(
		initCmd(),
		tournamentCmd(a),
		sessionCmd(a),
		bankrollCmd(a),
		statsCmd(a),
		exportCmd(a),
		importCmd(a),
		compactCmd(a),
		dashboardCmd(a),
	)
	return root
}

// execute runs root and prints a returned error once on stderr.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// setup loads the configuration, installs the logger and, unless the command
// opts out, opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		abs, absErr := filepath.Abs(db)
		if absErr != nil {
			return fmt.Errorf("resolve --db: %w", absErr)
		}
		cfg.Storage.Path = abs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = *cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	if cmd.Annotations[annotationNoStore] != "" {
		return nil
	}
	s, err := store.Open(cfg.Storage.Backend, cfg.DBPath())
	if err != nil {
		return err
	}
	a.store = s
	a.repo = repo.New(s)
	slog.Debug("store ready", "backend", cfg.Storage.Backend, "path", cfg.DBPath())
	return nil
}

// close releases the store, if one was opened.
func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		slog.Error("close store", "error", err)
	}
	a.store = nil
	a.repo = nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
