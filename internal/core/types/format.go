package types

import (
	"strings"
	"time"

	"barinalp/internal/config"
)

// Formatter converts money and dates between display and wire form.
// Construct it from the configured currency and date layouts.
type Formatter struct {
	currency config.Currency
	dates    config.DateFormat
}

// NewFormatter creates a formatter for the given settings.
func NewFormatter(currency config.Currency, dates config.DateFormat) Formatter {
	return Formatter{currency: currency, dates: dates}
}

// FormatCurrency renders 1234.5 as "1 234.50 лв." (or "1 234.50" without symbol).
func (f Formatter) FormatCurrency(m Money, showSymbol bool) string {
	fixed := m.StringFixed(f.currency.Decimals)

	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	out := sign + groupThousands(intPart)
	if hasFrac {
		out += "." + fracPart
	}
	if showSymbol && f.currency.Symbol != "" {
		out += " " + f.currency.Symbol
	}
	return out
}

// ParseCurrency reverses FormatCurrency. Symbol and spaces are stripped, a comma
// decimal separator is accepted and unparseable input yields zero.
func (f Formatter) ParseCurrency(s string) Money {
	if f.currency.Symbol != "" {
		s = strings.ReplaceAll(s, f.currency.Symbol, "")
	}
	s = strings.Join(strings.Fields(s), "")
	s = strings.Replace(s, ",", ".", 1)
	return ParseDecimalLenient(s)
}

// FormatDisplayDate renders DD.MM.YYYY. Zero time renders as "".
func (f Formatter) FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(f.dates.Display)
}

// FormatAPIDate renders YYYY-MM-DD. Zero time renders as "".
func (f Formatter) FormatAPIDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(f.dates.API)
}

// ParseDisplayDate parses DD.MM.YYYY; single-digit day and month are accepted.
func (f Formatter) ParseDisplayDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(f.dates.Display, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2.1.2006", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseAPIDate parses YYYY-MM-DD.
func (f Formatter) ParseAPIDate(s string) (time.Time, bool) {
	t, err := time.Parse(f.dates.API, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayToAPI converts "10.01.2025" to "2025-01-10". Invalid input yields "".
func (f Formatter) DisplayToAPI(s string) string {
	t, ok := f.ParseDisplayDate(s)
	if !ok {
		return ""
	}
	return f.FormatAPIDate(t)
}

// APIToDisplay converts "2025-01-10" to "10.01.2025". Invalid input yields "".
func (f Formatter) APIToDisplay(s string) string {
	t, ok := f.ParseAPIDate(s)
	if !ok {
		return ""
	}
	return f.FormatDisplayDate(t)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
