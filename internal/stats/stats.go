// Package stats computes derived figures from repository snapshots. All
// functions are pure: they read their arguments and return new values.
package stats

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
)

var hundred = decimal.NewFromInt(100)

// Stats summarises tournaments and sessions.
type Stats struct {
	TotalTournaments int
	TotalSessions    int
	TotalBuyIn       decimal.Decimal
	TotalCashout     decimal.Decimal
	NetProfit        decimal.Decimal // TotalCashout - TotalBuyIn
	WinSessions      int             // sessions with cashout > buyin
	WinRate          decimal.Decimal // percent of winning sessions, one decimal place
}

// WinRateString renders WinRate with exactly one decimal, e.g. "50.0".
func (s Stats) WinRateString() string {
	return s.WinRate.StringFixed(1)
}

// amount converts a stored number, treating NaN and infinities as zero.
func amount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Compute derives Stats. WinRate is 0 when there are no sessions.
func Compute(tournaments []poker.Tournament, sessions []poker.Session) Stats {
	st := Stats{
		TotalTournaments: len(tournaments),
		TotalSessions:    len(sessions),
		TotalBuyIn:       decimal.Zero,
		TotalCashout:     decimal.Zero,
		WinRate:          decimal.Zero,
	}
	for _, s := range sessions {
		buyin, cashout := amount(s.BuyIn), amount(s.Cashout)
		st.TotalBuyIn = st.TotalBuyIn.Add(buyin)
		st.TotalCashout = st.TotalCashout.Add(cashout)
		if cashout.GreaterThan(buyin) {
			st.WinSessions++
		}
	}
	st.NetProfit = st.TotalCashout.Sub(st.TotalBuyIn)
	if st.TotalSessions > 0 {
		st.WinRate = decimal.NewFromInt(int64(st.WinSessions)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(st.TotalSessions))).
			Round(1)
	}
	return st
}

// CurrencyTotal is the bankroll balance held in one currency.
type CurrencyTotal struct {
	Currency string
	Total    decimal.Decimal
	Entries  int
}

// Bankrolls sums entries per currency, ordered by currency code. Amounts in
// different currencies are never added together.
func Bankrolls(entries []poker.BankrollEntry) []CurrencyTotal {
	byCur := make(map[string]*CurrencyTotal)
	for _, e := range entries {
		code := strings.ToUpper(e.Currency)
		ct, ok := byCur[code]
		if !ok {
			ct = &CurrencyTotal{Currency: code, Total: decimal.Zero}
			byCur[code] = ct
		}
		ct.Total = ct.Total.Add(amount(e.Amount))
		ct.Entries++
	}
	out := make([]CurrencyTotal, 0, len(byCur))
	for _, ct := range byCur {
		out = append(out, *ct)
	}
	slices.SortFunc(out, func(a, b CurrencyTotal) int {
		return strings.Compare(a.Currency, b.Currency)
	})
	return out
}

// SiteTotal is the bankroll balance at one site in one currency.
type SiteTotal struct {
	Site     string
	Currency string
	Total    decimal.Decimal
}

// BySite sums entries per site and currency, ordered by site then currency.
func BySite(entries []poker.BankrollEntry) []SiteTotal {
	type key struct{ site, cur string }
	totals := make(map[key]decimal.Decimal)
	for _, e := range entries {
		k := key{e.Site, strings.ToUpper(e.Currency)}
		totals[k] = totals[k].Add(amount(e.Amount))
	}
	out := make([]SiteTotal, 0, len(totals))
	for k, v := range totals {
		out = append(out, SiteTotal{Site: k.site, Currency: k.cur, Total: v})
	}
	slices.SortFunc(out, func(a, b SiteTotal) int {
		if c := strings.Compare(a.Site, b.Site); c != 0 {
			return c
		}
		return strings.Compare(a.Currency, b.Currency)
	})
	return out
}

// FormatMoney renders d in the given currency using its symbol, fraction
// digits and grouping, e.g. "$1,234.50". Unknown codes render as
// "1234.50 XYZ".
func FormatMoney(d decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", d.StringFixed(2), code)
	}
	frac := int32(cur.Fraction)
	minor := d.Round(frac).Shift(frac)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSigned is FormatMoney with an explicit "+" for positive amounts.
func FormatSigned(d decimal.Decimal, currency string) string {
	if d.IsPositive() {
		return "+" + FormatMoney(d, currency)
	}
	return FormatMoney(d, currency)
}
