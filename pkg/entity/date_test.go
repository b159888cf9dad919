package entity

import (
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, ok := ParseDate("2024-03-05")
	if !ok {
		t.Fatal("expected ISO date to parse")
	}
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected instant.\nwant: %v\ngot:  %v", want, got)
	}
}

func TestParseDateDayMonthYear(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"5-3-24", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"5/3/24", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"15-3-99", time.Date(1999, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"01-12-2023", time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if !ok {
			t.Fatalf("%q: expected a parse", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: want %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseDateFallbackLayouts(t *testing.T) {
	got, ok := ParseDate("March 5, 2024")
	if !ok {
		t.Fatal("expected free-form date to parse")
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("unexpected date: %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-date", "soon", "2024-99-99"} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("%q: expected no parse", in)
		}
	}
}
