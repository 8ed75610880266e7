package interval

import (
	"errors"
	"testing"
	"time"
)

func TestParse_YearAndMonths(t *testing.T) {
	d, err := Parse("1 year 6 months")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// 365 days + 6*30 days = 545 days
	want := 545 * 24 * time.Hour
	if d != want {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestParse_Days(t *testing.T) {
	d, err := Parse("10 days")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ms := d.Milliseconds(); ms != 864_000_000 {
		t.Errorf("got %d ms, want 864000000", ms)
	}
}

func TestParse_MixedCase(t *testing.T) {
	d, err := Parse("2 Hours 30 Minutes")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ms := d.Milliseconds(); ms != 9_000_000 {
		t.Errorf("got %d ms, want 9000000", ms)
	}
}

func TestParse_SingularUnits(t *testing.T) {
	d, err := Parse("1 day 1 hour 1 minute 1 second")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := 24*time.Hour + time.Hour + time.Minute + time.Second
	if d != want {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		expr  string
		token string
	}{
		{"", ""},
		{"   ", ""},
		{"abc days", "abc"},
		{"5", "5"},
		{"1 year 6", "6"},
		{"3 fortnights", "fortnights"},
		{"-1 days", "-1"},
		{"1.5 years", "1.5"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.expr)
		if err == nil {
			t.Errorf("Parse(%q): expected error", tc.expr)
			continue
		}
		var merr *MalformedIntervalError
		if !errors.As(err, &merr) {
			t.Errorf("Parse(%q): wrong error type %T", tc.expr, err)
			continue
		}
		if merr.Token != tc.token {
			t.Errorf("Parse(%q): token %q, want %q", tc.expr, merr.Token, tc.token)
		}
	}
}

func TestParse_Overflow(t *testing.T) {
	// Counts whose product or sum would wrap int64 nanoseconds must be
	// rejected, never returned as a negative duration.
	cases := []struct {
		expr  string
		token string
	}{
		{"300 years", "300"},
		{"9999999999 days", "9999999999"},
		{"292 years 292 years", "292"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.expr)
		if err == nil {
			t.Errorf("Parse(%q): expected error", tc.expr)
			continue
		}
		var merr *MalformedIntervalError
		if !errors.As(err, &merr) {
			t.Errorf("Parse(%q): wrong error type %T", tc.expr, err)
			continue
		}
		if merr.Token != tc.token {
			t.Errorf("Parse(%q): token %q, want %q", tc.expr, merr.Token, tc.token)
		}
	}

	// 292 years still fits.
	d, err := Parse("292 years")
	if err != nil {
		t.Fatalf("Parse(292 years): %v", err)
	}
	if d <= 0 {
		t.Errorf("got %v, want positive duration", d)
	}
}

func TestParse_ZeroCount(t *testing.T) {
	// "0 days" is well-formed and yields a zero duration.
	d, err := Parse("0 days")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d != 0 {
		t.Errorf("got %v, want 0", d)
	}
}
