// Package core holds the domain model for the wedding-invitation back
// office: orders, transactions, invoices and the currency handling shared
// by every store.
//
// Amounts are whole rupiah held as int64. Input frequently arrives as
// locale-formatted strings ("1.500.000"), so parsing and coercion live
// here and are applied at every store boundary.
package core

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in whole rupiah. It unmarshals from either a JSON
// number or a formatted string, so records written by older clients load
// without a migration.
type Money struct {
	Rupiah int64
}

// ParseAmount converts a formatted currency string to whole rupiah.
//
// Accepted inputs: plain digits ("1500000"), Indonesian thousands
// separators ("1.500.000"), western separators ("1,500,000") and an
// optional "Rp" prefix. Negative or empty values are rejected.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimPrefix(s, "rp")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',' || unicode.IsSpace(r):
			// thousands separator, skip
		default:
			return 0, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// CoerceAmount is the lenient boundary normalizer: numbers pass through,
// strings are stripped down to digits, anything unparseable becomes 0.
// A single malformed amount must never corrupt an aggregate, so this
// never returns an error.
func CoerceAmount(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case Money:
		return x.Rupiah
	case string:
		n, err := ParseAmount(x)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Rupiah, 10)), nil
}

// UnmarshalJSON accepts a number or a formatted string. Garbage coerces
// to zero instead of failing the whole partition.
func (m *Money) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		m.Rupiah = n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Rupiah = CoerceAmount(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		m.Rupiah = int64(f)
		return nil
	}
	m.Rupiah = 0
	return nil
}

// FormatRupiah renders rupiah with Indonesian thousands separators for
// logs and CLI output, e.g. 1500000 -> "Rp 1.500.000".
func FormatRupiah(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp " + strings.Join(parts, ".")
	if neg {
		return "-" + out
	}
	return out
}
