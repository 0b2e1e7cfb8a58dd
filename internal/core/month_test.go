package core

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	cases := []struct {
		month int
		name  string
	}{
		{1, "januari"},
		{3, "maret"},
		{8, "agustus"},
		{12, "desember"},
	}
	for _, tc := range cases {
		if got := MonthKey(time.Date(2025, time.Month(tc.month), 15, 0, 0, 0, 0, time.UTC)); got != tc.name {
			t.Fatalf("month %d: expected %q, got %q", tc.month, tc.name, got)
		}
	}
}

func TestMonthNameRange(t *testing.T) {
	if _, err := MonthName(0); err == nil {
		t.Fatal("expected error for month 0")
	}
	if _, err := MonthName(13); err == nil {
		t.Fatal("expected error for month 13")
	}
	if name, err := MonthName(5); err != nil || name != "mei" {
		t.Fatalf("expected mei, got %q (err=%v)", name, err)
	}
}

func TestMonthIndex(t *testing.T) {
	if i, ok := MonthIndex("Desember"); !ok || i != 12 {
		t.Fatalf("expected 12, got %d (ok=%v)", i, ok)
	}
	if _, ok := MonthIndex("smarch"); ok {
		t.Fatal("expected unknown month")
	}
}

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		y, m   int
		py, pm int
	}{
		{2025, 6, 2025, 5},
		{2025, 1, 2024, 12}, // January rolls back a year
		{2024, 12, 2024, 11},
	}
	for _, tc := range cases {
		y, m := PreviousMonth(tc.y, tc.m)
		if y != tc.py || m != tc.pm {
			t.Fatalf("%d-%d: expected %d-%d, got %d-%d", tc.y, tc.m, tc.py, tc.pm, y, m)
		}
	}
}

func TestCountdownDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 13, 30, 0, 0, time.UTC)
	cases := []struct {
		event time.Time
		days  int
	}{
		{time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), 10},
		{time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), -9},
		{time.Time{}, 0}, // unparseable dates default to the sentinel
	}
	for i, tc := range cases {
		if got := CountdownDays(tc.event, now); got != tc.days {
			t.Fatalf("case %d: expected %d, got %d", i, tc.days, got)
		}
	}
}
