// Package poker defines the tracked records (tournaments, sessions and
// bankroll entries) and the validation rules applied before they are stored.
package poker

import "strings"

// Tournament statuses accepted by Validate. An empty status is also allowed.
const (
	StatusScheduled  = "Scheduled"
	StatusRegistered = "Registered"
	StatusPlaying    = "Playing"
	StatusCompleted  = "Completed"
)

// Statuses lists the tournament statuses in lifecycle order.
var Statuses = []string{StatusScheduled, StatusRegistered, StatusPlaying, StatusCompleted}

// Tournament is a scheduled poker event the user plans to enter or has entered.
type Tournament struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name,omitempty"`
	Site               string  `json:"site,omitempty"`
	Date               string  `json:"date"`
	BuyIn              float64 `json:"buyin"`
	GameType           string  `json:"gameType,omitempty"`
	Format             string  `json:"format,omitempty"`
	Status             string  `json:"status,omitempty"`
	RegistrationWindow string  `json:"registrationWindow,omitempty"`
	ReEntryCount       int     `json:"reEntryCount,omitempty"`
	Addon              string  `json:"addon,omitempty"`
}

// Title returns the name of the tournament, falling back to its site.
func (t Tournament) Title() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Site
}

// Normalize returns a copy with surrounding whitespace trimmed from every
// text field.
func (t Tournament) Normalize() Tournament {
	t.Name = strings.TrimSpace(t.Name)
	t.Site = strings.TrimSpace(t.Site)
	t.Date = strings.TrimSpace(t.Date)
	t.GameType = strings.TrimSpace(t.GameType)
	t.Format = strings.TrimSpace(t.Format)
	t.Status = strings.TrimSpace(t.Status)
	t.RegistrationWindow = strings.TrimSpace(t.RegistrationWindow)
	t.Addon = strings.TrimSpace(t.Addon)
	return t
}

// Session is one played tournament or cash game.
type Session struct {
	ID      int64   `json:"id"`
	Date    string  `json:"date"`
	BuyIn   float64 `json:"buyin"`
	Cashout float64 `json:"cashout"`
	Site    string  `json:"site,omitempty"`
	// TournamentID is an advisory link; the tournament may no longer exist.
	TournamentID int64  `json:"tournamentId,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Profit returns cashout minus buy-in.
func (s Session) Profit() float64 {
	return s.Cashout - s.BuyIn
}

// Won reports whether the session cashed for more than its buy-in.
// Break-even is not a win.
func (s Session) Won() bool {
	return s.Cashout > s.BuyIn
}

// Normalize returns a copy with surrounding whitespace trimmed from every
// text field.
func (s Session) Normalize() Session {
	s.Date = strings.TrimSpace(s.Date)
	s.Site = strings.TrimSpace(s.Site)
	s.Notes = strings.TrimSpace(s.Notes)
	return s
}

// BankrollEntry is a ledger line recording funds at a site. A negative
// amount is a withdrawal.
type BankrollEntry struct {
	ID       int64   `json:"id"`
	Site     string  `json:"site"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Normalize trims text fields and upper-cases the currency code.
func (b BankrollEntry) Normalize() BankrollEntry {
	b.Site = strings.TrimSpace(b.Site)
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	b.Date = strings.TrimSpace(b.Date)
	b.Notes = strings.TrimSpace(b.Notes)
	return b
}
