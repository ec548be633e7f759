package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/backup"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/config"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/report"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/store"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Scaffold pokertrack.toml and the data directory",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.Scaffold(dir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatScaffoldResult(created))
			return nil
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals, profit, win rate and bankroll balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.repo.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Stats(stats.Compute(snap.Tournaments, snap.Sessions), a.cfg.Display.Currency))
			fmt.Fprintln(out)
			fmt.Fprintln(out, report.BankrollTotals(snap.Bankrolls))
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every record to a JSON backup (default from [export] backup_file, - for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Export.BackupFile
			if len(args) == 1 {
				path = args[0]
			}
			write := func(w io.Writer) error { return backup.Export(cmd.Context(), a.repo, w) }
			return writeOutput(cmd, path, write, "Exported backup to %s\n")
		},
	}
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore records from a JSON backup, replacing those with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			res, err := backup.Import(cmd.Context(), a.repo, in)
			fmt.Fprint(cmd.OutOrStdout(), formatImportResult(res, err))
			return err
		},
	}
}

func compactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Reclaim space in the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := a.store.(store.Compactor)
			if !ok {
				return fmt.Errorf("backend %q does not support compaction", a.cfg.Storage.Backend)
			}
			if err := c.Compact(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Compacted %s\n", a.cfg.DBPath())
			return nil
		},
	}
}

func dashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refresh, _ := cmd.Flags().GetDuration("refresh")
			if refresh < 0 {
				return fmt.Errorf("invalid --refresh %s: must not be negative", refresh)
			}
			return runDashboard(cmd.Context(), a, refresh)
		},
	}
	cmd.Flags().Duration("refresh", 30*time.Second, "reload interval, 0 to disable")
	return cmd
}
