package util

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in        string
		y, m, d   int
		bounded   bool
		wantError bool
	}{
		{"5y", 5, 0, 0, true, false},
		{"6mo", 0, 6, 0, true, false},
		{"180d", 0, 0, 180, true, false},
		{"8wk", 0, 0, 56, true, false},
		{"max", 0, 0, 0, false, false},
		{"", 0, 0, 0, false, false},
		{"5x", 0, 0, 0, false, true},
		{"-2y", 0, 0, 0, false, true},
	}
	for _, c := range cases {
		y, m, d, bounded, err := ParsePeriod(c.in)
		if (err != nil) != c.wantError {
			t.Fatalf("%q: unexpected error %v", c.in, err)
		}
		if y != c.y || m != c.m || d != c.d || bounded != c.bounded {
			t.Fatalf("%q: got %d %d %d %v", c.in, y, m, d, bounded)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	got, err := PeriodStart(now, "5y")
	if err != nil || !got.Equal(time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v %v", got, err)
	}
	for _, p := range []string{"max", "", "100y"} {
		got, err := PeriodStart(now, p)
		if err != nil || !got.Equal(Epoch) || got.Unix() != 0 {
			t.Fatalf("%q should clamp to the unix epoch, got %v %v", p, got, err)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	if got := SplitCSV(" A, ,B ,"); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("SplitCSV: %v", got)
	}
}
