package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1500000", 1500000, true},
		{"1.500.000", 1500000, true},
		{"1,500,000", 1500000, true},
		{"Rp 1.500.000", 1500000, true},
		{" 500.000 ", 500000, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.5k", 0, false},
		{"", 0, false},
		{"Rp", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		in  any
		out int64
	}{
		{"1.500.000", 1500000},
		{"300000", 300000},
		{int64(42), 42},
		{7, 7},
		{float64(1000), 1000},
		{Money{Rupiah: 99}, 99},
		{"not-a-number", 0},
		{nil, 0},
		{true, 0},
	}
	for i, tc := range cases {
		if got := CoerceAmount(tc.in); got != tc.out {
			t.Fatalf("case %d: expected %d, got %d", i, tc.out, got)
		}
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{`2000000`, 2000000},
		{`"1.500.000"`, 1500000},
		{`"500000"`, 500000},
		{`"garbage"`, 0},
		{`null`, 0},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if m.Rupiah != tc.out {
			t.Fatalf("%s: expected %d, got %d", tc.in, tc.out, m.Rupiah)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{1500000, "Rp 1.500.000"},
		{-250000, "-Rp 250.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.in); got != tc.out {
			t.Fatalf("%d: expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
