package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/ageing-report/internal/ageing"
)

// Serial range accepted for numeric date cells: 1900-03-01 through 9999-12-31.
// Spreadsheets count a nonexistent 1900-02-29 as serial 60, so serials below
// 61 do not map onto the calendar the way spreadsheets display them.
const (
	minDateSerial = 61
	maxDateSerial = 2958465
)

var (
	errEmpty         = errors.New("empty value")
	errUnknownFormat = errors.New("unrecognized date format")
	errNotNumeric    = errors.New("not a number")
)

// dateLayouts are tried in order. Slash and dot forms are day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.06",
	"20060102",
	"02-Jan-2006",
	"2 Jan 2006",
}

// ParseDate reads a document date from text or a spreadsheet serial. Only the
// calendar date is kept.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmpty
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "-/") {
		if f >= minDateSerial && f <= maxDateSerial {
			return ageing.FromSerial(f), nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ageing.CivilDate(t), nil
		}
	}

	return time.Time{}, errUnknownFormat
}

// ParseAmount reads a monetary amount. It accepts thousands separators,
// decimal commas, accounting parentheses and the trailing minus sign used
// by SAP exports.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, errEmpty
	}

	negative := false
	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		negative = true
		s = s[1 : len(s)-1]
	case strings.HasSuffix(s, "-") && len(s) > 1:
		negative = true
		s = s[:len(s)-1]
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errNotNumeric, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators rewrites "1.234,56" and "1,234.56" to "1234.56".
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma < 0:
		return s
	case lastDot > lastComma:
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3:
		return strings.Replace(s, ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}

// CanonicalAccount returns the account identifier as text. Numbers rendered
// in float form ("100.0", "1.0E2") collapse to their integer digits. Plain
// digit strings are kept as they are, leading zeros included.
func CanonicalAccount(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.ContainsAny(s, ".eE") {
		return s
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.Truncate(0).String()
}
