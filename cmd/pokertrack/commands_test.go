package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/config"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/report"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/store"
)

// newProject writes a default pokertrack.toml into a temp dir and returns
// the dir. The store lives under dir/data.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := config.InitFile(dir); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	return dir
}

// runCLI executes one pokertrack invocation against the project in dir and
// returns its stdout.
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := rootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(dir, config.FileName)}, args...))
	err := root.Execute()
	a.close()
	return out.String(), err
}

// mustRun is runCLI that fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dir, "", args...)
	if err != nil {
		t.Fatalf("pokertrack %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func checkOutput(t *testing.T, got string, contains, excludes []string) {
	t.Helper()
	for _, want := range contains {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q\ngot:\n%s", want, got)
		}
	}
	for _, exclude := range excludes {
		if strings.Contains(got, exclude) {
			t.Errorf("output should NOT contain %q\ngot:\n%s", exclude, got)
		}
	}
}

func TestRootCommandStructure(t *testing.T) {
	root := rootCmd(&app{})
	want := []string{"init", "tournament", "session", "bankroll", "stats", "export", "import", "compact", "dashboard"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("missing subcommand %q", name)
		}
	}

	for _, group := range []string{"tournament", "session", "bankroll"} {
		for _, sub := range []string{"add", "list", "update", "delete"} {
			if cmd, _, err := root.Find([]string{group, sub}); err != nil || cmd.Name() != sub {
				t.Errorf("missing %s %s", group, sub)
			}
		}
	}

	initC, _, _ := root.Find([]string{"init"})
	if initC.Annotations[annotationNoStore] == "" {
		t.Error("init should not open the store")
	}
}

func TestTournamentLifecycle(t *testing.T) {
	dir := newProject(t)

	out := mustRun(t, dir, "tournament", "add",
		"--name", "Sunday Million", "--site", "PokerStars", "--date", "2025-06-08",
		"--buyin", "215", "--game-type", "NLHE", "--status", "Scheduled")
	checkOutput(t, out, []string{"Added tournament 1"}, nil)

	mustRun(t, dir, "tournament", "add", "--name", "Bounty Builder", "--date", "2025-06-09", "--buyin", "22")

	out = mustRun(t, dir, "tournament", "list")
	checkOutput(t, out, []string{"Sunday Million", "Bounty Builder", "215.00"}, nil)

	out = mustRun(t, dir, "tournament", "update", "1", "--status", "Registered", "--re-entries", "2")
	checkOutput(t, out, []string{"Updated tournament 1"}, nil)

	out = mustRun(t, dir, "tournament", "list", "--status", "Registered")
	checkOutput(t, out, []string{"Sunday Million", "Registered"}, []string{"Bounty Builder"})

	// Update keeps fields whose flags were not given.
	out = mustRun(t, dir, "tournament", "list", "--search", "sunday")
	checkOutput(t, out, []string{"NLHE", "215.00"}, nil)

	out = mustRun(t, dir, "tournament", "delete", "1")
	checkOutput(t, out, []string{"Deleted tournament 1"}, nil)

	out = mustRun(t, dir, "tournament", "list", "--sort", "buyin", "--desc")
	checkOutput(t, out, []string{"Bounty Builder"}, []string{"Sunday Million"})
}

func TestTournamentCommandErrors(t *testing.T) {
	dir := newProject(t)
	mustRun(t, dir, "tournament", "add", "--name", "Existing", "--date", "2025-06-01", "--buyin", "5")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing date", []string{"tournament", "add", "--name", "X", "--buyin", "5"}, "date is required"},
		{"missing buyin", []string{"tournament", "add", "--name", "X", "--date", "2025-06-01"}, "buyin is required"},
		{"missing name and site", []string{"tournament", "add", "--date", "2025-06-01"}, "name or site is required"},
		{"non-numeric buyin", []string{"tournament", "add", "--name", "X", "--date", "2025-06-01", "--buyin", "ten"}, "must be a number"},
		{"bad status", []string{"tournament", "add", "--name", "X", "--date", "2025-06-01", "--status", "Busted"}, "status must be one of"},
		{"negative re-entries", []string{"tournament", "update", "1", "--re-entries", "-1"}, "non-negative integer"},
		{"bad sort", []string{"tournament", "list", "--sort", "color"}, "invalid --sort"},
		{"bad id", []string{"tournament", "delete", "abc"}, "invalid id"},
		{"bad month", []string{"tournament", "calendar", "--month", "June"}, "invalid --month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, dir, "", tt.args...)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	out := mustRun(t, dir, "tournament", "list")
	checkOutput(t, out, []string{"Existing"}, []string{"Busted", " X "})
}

func TestUpdateMissingRecord(t *testing.T) {
	dir := newProject(t)
	tests := []struct {
		group string
		flag  string
	}{
		{"tournament", "--name"},
		{"session", "--notes"},
		{"bankroll", "--notes"},
	}
	for _, tt := range tests {
		_, err := runCLI(t, dir, "", tt.group, "update", "42", tt.flag, "x")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%s update: err = %v, want ErrNotFound", tt.group, err)
		}
	}
}

func TestDeleteMissingRecordSucceeds(t *testing.T) {
	dir := newProject(t)
	out := mustRun(t, dir, "session", "delete", "7")
	checkOutput(t, out, []string{"Deleted session 7"}, nil)
}

func TestSessionCommands(t *testing.T) {
	dir := newProject(t)
	mustRun(t, dir, "tournament", "add", "--name", "Main Event", "--date", "2025-06-01", "--buyin", "50")

	_, err := runCLI(t, dir, "", "session", "add", "--date", "2025-06-01", "--cashout", "10")
	if err == nil || !strings.Contains(err.Error(), "buyin is required") {
		t.Fatalf("session add without buyin: err = %v", err)
	}

	out := mustRun(t, dir, "session", "add", "--date", "2025-06-01", "--buyin", "50", "--cashout", "120",
		"--site", "GGPoker", "--tournament", "1")
	checkOutput(t, out, []string{"Added session 1"}, nil)

	mustRun(t, dir, "session", "add", "--date", "2025-06-02", "--buyin", "30", "--cashout", "0", "--tournament", "9")

	out = mustRun(t, dir, "session", "list")
	checkOutput(t, out, []string{"+$70.00", "-$30.00", "Main Event", "Unknown"}, nil)

	mustRun(t, dir, "session", "update", "2", "--cashout", "45")
	out = mustRun(t, dir, "session", "list")
	checkOutput(t, out, []string{"+$15.00"}, []string{"-$30.00"})

	out = mustRun(t, dir, "stats")
	checkOutput(t, out, []string{"Sessions:            2", "Net profit:          +$85.00", "100.0%", "No bankroll entries yet."}, nil)
}

func TestBankrollCommands(t *testing.T) {
	dir := newProject(t)

	_, err := runCLI(t, dir, "", "bankroll", "add", "--site", "PokerStars")
	if err == nil || !strings.Contains(err.Error(), "amount is required") {
		t.Fatalf("bankroll add without amount: err = %v", err)
	}

	mustRun(t, dir, "bankroll", "add", "--site", "PokerStars", "--amount", "500", "--date", "2025-06-01")
	mustRun(t, dir, "bankroll", "add", "--site", "PokerStars", "--amount", "-120")
	mustRun(t, dir, "bankroll", "add", "--site", "Unibet", "--amount", "200", "--currency", "eur")

	out := mustRun(t, dir, "bankroll", "list")
	checkOutput(t, out, []string{"+$500.00", "Balance", "USD", "EUR", "(2 entries)"}, []string{"By site"})

	out = mustRun(t, dir, "bankroll", "list", "--by-site")
	checkOutput(t, out, []string{"By site", "PokerStars", "+$380.00", "Unibet"}, nil)

	mustRun(t, dir, "bankroll", "delete", "2")
	out = mustRun(t, dir, "stats")
	checkOutput(t, out, []string{"Balance", "(1 entries)"}, nil)
}

func TestBulkAddFromStdin(t *testing.T) {
	dir := newProject(t)
	input := "Daily Deepstack,2025-06-01,10\nmissing fields\n\nNight Owl,2025-06-02,abc\nHigh Roller,2025-06-03,1050\n"

	out, err := runCLI(t, dir, input, "tournament", "bulk")
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	checkOutput(t, out, []string{"Added 2 tournaments, 2 failed", "line 2", "line 4"}, []string{"line 3"})

	out = mustRun(t, dir, "tournament", "list")
	checkOutput(t, out, []string{"Daily Deepstack", "High Roller"}, []string{"Night Owl"})
}

func TestBulkAddFromFile(t *testing.T) {
	dir := newProject(t)
	path := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(path, []byte("A,2025-06-01,5\nB,2025-06-02,6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, dir, "tournament", "bulk", path)
	checkOutput(t, out, []string{"Added 2 tournaments"}, []string{"failed"})
}

func TestCalendarAndCSV(t *testing.T) {
	dir := newProject(t)
	mustRun(t, dir, "tournament", "add", "--name", "Midweek", "--site", "Casino", "--date", "2025-06-11", "--buyin", "100")

	out := mustRun(t, dir, "tournament", "calendar", "--month", "2025-06")
	checkOutput(t, out, []string{"June 2025", "Midweek"}, nil)

	out = mustRun(t, dir, "tournament", "csv", "-")
	checkOutput(t, out, []string{`"Date","Site","Buy-In"`, `"Casino"`}, nil)

	path := filepath.Join(dir, "out", "t.csv")
	out = mustRun(t, dir, "tournament", "csv", path)
	checkOutput(t, out, []string{"Exported 1 tournaments to " + path}, nil)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.Contains(string(data), `"2025-06-11"`) {
		t.Errorf("csv missing row:\n%s", data)
	}
}

func TestExportImportAcrossProjects(t *testing.T) {
	src := newProject(t)
	mustRun(t, src, "tournament", "add", "--name", "Main Event", "--date", "2025-06-01", "--buyin", "50")
	mustRun(t, src, "session", "add", "--date", "2025-06-01", "--buyin", "50", "--cashout", "80", "--tournament", "1")
	mustRun(t, src, "bankroll", "add", "--site", "Home", "--amount", "1000")

	backupPath := filepath.Join(src, "backup.json")
	out := mustRun(t, src, "export", backupPath)
	checkOutput(t, out, []string{"Exported backup to " + backupPath}, nil)

	dst := newProject(t)
	out = mustRun(t, dst, "import", backupPath)
	checkOutput(t, out, []string{"Imported 3 records", "1 tournaments, 1 sessions, 1 bankroll entries"}, nil)

	// Importing again replaces by id instead of duplicating.
	mustRun(t, dst, "import", backupPath)
	out = mustRun(t, dst, "stats")
	checkOutput(t, out, []string{"Tournaments:         1", "Sessions:            1", "+$30.00"}, nil)

	out = mustRun(t, src, "export", "-")
	checkOutput(t, out, []string{`"tournaments"`, `"Main Event"`}, nil)
}

func TestImportErrors(t *testing.T) {
	dir := newProject(t)

	if _, err := runCLI(t, dir, "", "import", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := `{"tournaments":[{"name":"Ok","date":"2025-06-01","buyin":5},{"name":"","date":"2025-06-01","buyin":5}]}`
	out, err := runCLI(t, dir, bad, "import", "-")
	if err == nil {
		t.Fatal("expected error for invalid record")
	}
	checkOutput(t, out, []string{"Import stopped after 1 records"}, nil)
}

func TestCompact(t *testing.T) {
	for _, backend := range []string{"sqlite", "jsonl"} {
		t.Run(backend, func(t *testing.T) {
			t.Setenv(config.EnvBackend, backend)
			dir := newProject(t)
			mustRun(t, dir, "tournament", "add", "--name", "A", "--date", "2025-06-01", "--buyin", "5")
			mustRun(t, dir, "tournament", "update", "1", "--name", "B")
			out := mustRun(t, dir, "compact")
			checkOutput(t, out, []string{"Compacted"}, nil)
			out = mustRun(t, dir, "tournament", "list")
			checkOutput(t, out, []string{"B"}, nil)
		})
	}
}

func TestDBFlagOverridesConfig(t *testing.T) {
	dir := newProject(t)
	db := filepath.Join(t.TempDir(), "other.db")
	mustRun(t, dir, "--db", db, "tournament", "add", "--name", "Elsewhere", "--date", "2025-06-01", "--buyin", "5")

	if _, err := os.Stat(db); err != nil {
		t.Fatalf("--db file not created: %v", err)
	}
	out := mustRun(t, dir, "tournament", "list")
	if strings.TrimSpace(out) != report.NoTournaments {
		t.Errorf("default store should be empty, got:\n%s", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	run := func() string {
		a := &app{}
		root := rootCmd(a)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs([]string{"init"})
		if err := root.Execute(); err != nil {
			t.Fatalf("init: %v", err)
		}
		if a.store != nil {
			t.Error("init should not open the store")
		}
		return out.String()
	}

	checkOutput(t, run(), []string{"Created", config.FileName, ".gitignore"}, nil)
	checkOutput(t, run(), []string{"already exist"}, []string{"Created"})
}

func TestDashboardRejectsNegativeRefresh(t *testing.T) {
	dir := newProject(t)
	_, err := runCLI(t, dir, "", "dashboard", "--refresh", "-1s")
	if err == nil || !strings.Contains(err.Error(), "must not be negative") {
		t.Errorf("err = %v", err)
	}
}

func TestDashboardOptions(t *testing.T) {
	a := &app{cfg: config.Defaults()}
	a.cfg.Dir = "/srv/poker"
	a.cfg.Display.Currency = "EUR"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	opts := dashboardOptions(ctx, a, 5*time.Second)
	if opts.Context != ctx {
		t.Error("Context should be the command context")
	}
	if opts.Backend != "sqlite" {
		t.Errorf("Backend = %q", opts.Backend)
	}
	if opts.DBPath != filepath.Join("/srv/poker", "data", "pokertrack.db") {
		t.Errorf("DBPath = %q", opts.DBPath)
	}
	if opts.Currency != "EUR" || opts.AccentColor != config.DefaultAccentColor {
		t.Errorf("display options = %q %q", opts.Currency, opts.AccentColor)
	}
	if opts.RefreshInterval != 5*time.Second {
		t.Errorf("RefreshInterval = %v", opts.RefreshInterval)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"x", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in        string
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{"", 2025, time.March, false},
		{"2024-12", 2024, time.December, false},
		{"2024-13", 0, 0, true},
		{"12/2024", 0, 0, true},
	}
	for _, tt := range tests {
		y, m, err := parseMonth(tt.in, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMonth(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("parseMonth(%q) = %d-%v, want %d-%v", tt.in, y, m, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestStatusFlagHelpListsStatuses(t *testing.T) {
	root := rootCmd(&app{})
	add, _, _ := root.Find([]string{"tournament", "add"})
	usage := add.Flags().Lookup("status").Usage
	for _, s := range poker.Statuses {
		if !strings.Contains(usage, s) {
			t.Errorf("--status usage %q missing %q", usage, s)
		}
	}
}
