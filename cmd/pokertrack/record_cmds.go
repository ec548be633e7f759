package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/backup"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/report"
)

// parseID parses a positional record id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// requireFlags reports every listed flag the user left out together with
// the record's own validation failures.
func requireFlags(cmd *cobra.Command, kind string, validate func() error, flags ...string) error {
	verr := &poker.ValidationError{Kind: kind}
	for _, f := range flags {
		if !cmd.Flags().Changed(f) {
			verr.Fields = append(verr.Fields, poker.FieldError{Field: f, Message: "is required"})
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	var rest *poker.ValidationError
	if errors.As(validate(), &rest) {
		verr.Fields = append(verr.Fields, rest.Fields...)
	}
	return verr
}

// stringFlag returns the value of a string flag and whether the user set it.
func stringFlag(cmd *cobra.Command, name string) (string, bool) {
	v, _ := cmd.Flags().GetString(name)
	return v, cmd.Flags().Changed(name)
}

// --- tournaments ---

func tournamentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tournament",
		Aliases: []string{"t"},
		Short:   "Manage scheduled tournaments",
	}
	cmd.AddCommand(
		tournamentAddCmd(a),
		tournamentListCmd(a),
		tournamentUpdateCmd(a),
		tournamentDeleteCmd(a),
		tournamentBulkCmd(a),
		tournamentCalendarCmd(a),
		tournamentCSVCmd(a),
	)
	return cmd
}

func addTournamentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "tournament name")
	f.String("site", "", "site or venue")
	f.String("date", "", "date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	f.String("buyin", "", "buy-in amount")
	f.String("game-type", "", "game type, e.g. NLHE")
	f.String("format", "", "format, e.g. Turbo")
	f.String("status", "", "one of "+strings.Join(poker.Statuses, ", "))
	f.String("registration-window", "", "late registration window")
	f.String("re-entries", "", "number of re-entries")
	f.String("addon", "", "add-on description")
}

// applyTournamentFlags copies every flag the user set onto t.
func applyTournamentFlags(cmd *cobra.Command, t poker.Tournament) (poker.Tournament, error) {
	if v, ok := stringFlag(cmd, "name"); ok {
		t.Name = v
	}
	if v, ok := stringFlag(cmd, "site"); ok {
		t.Site = v
	}
	if v, ok := stringFlag(cmd, "date"); ok {
		t.Date = v
	}
	if v, ok := stringFlag(cmd, "buyin"); ok {
		f, err := poker.ParseAmount("tournament", "buyin", v)
		if err != nil {
			return t, err
		}
		t.BuyIn = f
	}
	if v, ok := stringFlag(cmd, "game-type"); ok {
		t.GameType = v
	}
	if v, ok := stringFlag(cmd, "format"); ok {
		t.Format = v
	}
	if v, ok := stringFlag(cmd, "status"); ok {
		t.Status = v
	}
	if v, ok := stringFlag(cmd, "registration-window"); ok {
		t.RegistrationWindow = v
	}
	if v, ok := stringFlag(cmd, "re-entries"); ok {
		n, err := poker.ParseCount("tournament", "reEntryCount", v)
		if err != nil {
			return t, err
		}
		t.ReEntryCount = n
	}
	if v, ok := stringFlag(cmd, "addon"); ok {
		t.Addon = v
	}
	return t, nil
}

func tournamentAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tournament",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := applyTournamentFlags(cmd, poker.Tournament{})
			if err != nil {
				return err
			}
			if err := requireFlags(cmd, "tournament", t.Validate, "buyin"); err != nil {
				return err
			}
			id, err := a.repo.AddTournament(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added tournament %d\n", id)
			return nil
		},
	}
	addTournamentFlags(cmd)
	return cmd
}

func tournamentListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tournaments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := repo.Query{}
			q.Search, _ = cmd.Flags().GetString("search")
			q.Status, _ = cmd.Flags().GetString("status")
			q.SortBy, _ = cmd.Flags().GetString("sort")
			q.Desc, _ = cmd.Flags().GetBool("desc")
			if q.SortBy != "" && !slices.Contains(repo.SortFields, q.SortBy) {
				return fmt.Errorf("invalid --sort %q: want one of %s", q.SortBy, strings.Join(repo.SortFields, ", "))
			}

			ts, err := a.repo.ListTournaments(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Tournaments(repo.FilterTournaments(ts, q)))
			return nil
		},
	}
	cmd.Flags().String("search", "", "case-insensitive text to match")
	cmd.Flags().String("status", "", "only show tournaments with this status")
	cmd.Flags().String("sort", "", "sort by "+strings.Join(repo.SortFields, ", "))
	cmd.Flags().Bool("desc", false, "sort descending")
	return cmd
}

func tournamentUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a tournament; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.repo.GetTournament(cmd.Context(), id)
			if err != nil {
				return err
			}
			if t, err = applyTournamentFlags(cmd, t); err != nil {
				return err
			}
			if err := a.repo.UpdateTournament(cmd.Context(), id, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated tournament %d\n", id)
			return nil
		},
	}
	addTournamentFlags(cmd)
	return cmd
}

func tournamentDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteTournament(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tournament %d\n", id)
			return nil
		},
	}
}

func tournamentBulkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk [file]",
		Short: "Add tournaments from lines of Name,Date,Buyin (stdin when no file or -)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			res, err := a.repo.BulkAddTournaments(cmd.Context(), in)
			fmt.Fprint(cmd.OutOrStdout(), formatBulkResult(res))
			return err
		},
	}
}

func tournamentCalendarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month calendar with tournament days marked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			year, mon, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}
			ts, err := a.repo.ListTournaments(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Calendar(ts, year, mon))
			return nil
		},
	}
	cmd.Flags().String("month", "", "month to show, YYYY-MM (default: current month)")
	return cmd
}

// parseMonth parses a YYYY-MM value, defaulting to the month of now.
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --month %q: want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

func tournamentCSVCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "csv [file]",
		Short: "Export tournaments as CSV (default file from [export] csv_file, - for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := a.repo.ListTournaments(cmd.Context())
			if err != nil {
				return err
			}
			path := a.cfg.Export.CSVFile
			if len(args) == 1 {
				path = args[0]
			}
			write := func(w io.Writer) error { return backup.WriteTournamentCSV(w, ts) }
			return writeOutput(cmd, path, write, fmt.Sprintf("Exported %d tournaments to %%s\n", len(ts)))
		},
	}
}

// writeOutput sends write's output to stdout for "-" or atomically to path,
// then reports the path with the done format.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error, done string) error {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	if err := backup.WriteFile(path, write); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), done, path)
	return nil
}

// --- sessions ---

func sessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Manage played sessions",
	}
	cmd.AddCommand(
		sessionAddCmd(a),
		sessionListCmd(a),
		sessionUpdateCmd(a),
		sessionDeleteCmd(a),
	)
	return cmd
}

func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("date", "", "date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	f.String("buyin", "", "amount paid in")
	f.String("cashout", "", "amount cashed out")
	f.String("site", "", "site or venue")
	f.String("tournament", "", "id of the tournament played")
	f.String("notes", "", "free-form notes")
}

func applySessionFlags(cmd *cobra.Command, s poker.Session) (poker.Session, error) {
	if v, ok := stringFlag(cmd, "date"); ok {
		s.Date = v
	}
	if v, ok := stringFlag(cmd, "buyin"); ok {
		f, err := poker.ParseAmount("session", "buyin", v)
		if err != nil {
			return s, err
		}
		s.BuyIn = f
	}
	if v, ok := stringFlag(cmd, "cashout"); ok {
		f, err := poker.ParseAmount("session", "cashout", v)
		if err != nil {
			return s, err
		}
		s.Cashout = f
	}
	if v, ok := stringFlag(cmd, "site"); ok {
		s.Site = v
	}
	if v, ok := stringFlag(cmd, "tournament"); ok {
		n, err := poker.ParseCount("session", "tournamentId", v)
		if err != nil {
			return s, err
		}
		s.TournamentID = int64(n)
	}
	if v, ok := stringFlag(cmd, "notes"); ok {
		s.Notes = v
	}
	return s, nil
}

func sessionAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := applySessionFlags(cmd, poker.Session{})
			if err != nil {
				return err
			}
			if err := requireFlags(cmd, "session", s.Validate, "buyin", "cashout"); err != nil {
				return err
			}
			id, err := a.repo.AddSession(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added session %d\n", id)
			return nil
		},
	}
	addSessionFlags(cmd)
	return cmd
}

func sessionListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions with profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.repo.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Sessions(snap.Sessions, snap.Tournaments, a.cfg.Display.Currency))
			return nil
		},
	}
}

func sessionUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a session; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.repo.GetSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			if s, err = applySessionFlags(cmd, s); err != nil {
				return err
			}
			if err := a.repo.UpdateSession(cmd.Context(), id, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated session %d\n", id)
			return nil
		},
	}
	addSessionFlags(cmd)
	return cmd
}

func sessionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteSession(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %d\n", id)
			return nil
		},
	}
}

// --- bankroll ---

func bankrollCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bankroll",
		Aliases: []string{"b"},
		Short:   "Manage bankroll deposits and withdrawals",
	}
	cmd.AddCommand(
		bankrollAddCmd(a),
		bankrollListCmd(a),
		bankrollUpdateCmd(a),
		bankrollDeleteCmd(a),
	)
	return cmd
}

func addBankrollFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("site", "", "site holding the funds")
	f.String("currency", "", "ISO 4217 code (default from [display] currency)")
	f.String("amount", "", "amount; negative for a withdrawal")
	f.String("date", "", "date, YYYY-MM-DD")
	f.String("notes", "", "free-form notes")
}

func applyBankrollFlags(cmd *cobra.Command, b poker.BankrollEntry) (poker.BankrollEntry, error) {
	if v, ok := stringFlag(cmd, "site"); ok {
		b.Site = v
	}
	if v, ok := stringFlag(cmd, "currency"); ok {
		b.Currency = v
	}
	if v, ok := stringFlag(cmd, "amount"); ok {
		f, err := poker.ParseAmount("bankroll entry", "amount", v)
		if err != nil {
			return b, err
		}
		b.Amount = f
	}
	if v, ok := stringFlag(cmd, "date"); ok {
		b.Date = v
	}
	if v, ok := stringFlag(cmd, "notes"); ok {
		b.Notes = v
	}
	return b, nil
}

func bankrollAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a deposit or withdrawal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := applyBankrollFlags(cmd, poker.BankrollEntry{Currency: a.cfg.Display.Currency})
			if err != nil {
				return err
			}
			if err := requireFlags(cmd, "bankroll entry", b.Validate, "amount"); err != nil {
				return err
			}
			id, err := a.repo.AddBankroll(cmd.Context(), b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added bankroll entry %d\n", id)
			return nil
		},
	}
	addBankrollFlags(cmd)
	return cmd
}

func bankrollListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bankroll entries and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := a.repo.ListBankrolls(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Bankrolls(bs))
			if bySite, _ := cmd.Flags().GetBool("by-site"); bySite && len(bs) > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, formatSiteTotals(bs))
			}
			return nil
		},
	}
	cmd.Flags().Bool("by-site", false, "also show the balance per site")
	return cmd
}

func bankrollUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a bankroll entry; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.repo.GetBankroll(cmd.Context(), id)
			if err != nil {
				return err
			}
			if b, err = applyBankrollFlags(cmd, b); err != nil {
				return err
			}
			if err := a.repo.UpdateBankroll(cmd.Context(), id, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated bankroll entry %d\n", id)
			return nil
		},
	}
	addBankrollFlags(cmd)
	return cmd
}

func bankrollDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bankroll entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteBankroll(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted bankroll entry %d\n", id)
			return nil
		},
	}
}
