package timecalc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/ponto/internal/timecalc"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"8:05", 485, false},
		{"23:59", 1439, false},
		{"12:30:45", 750, false},
		{" 09:15 ", 555, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12:5", 0, true},
		{"noon", 0, true},
		{"12", 0, true},
		{"1:2:3:4", 0, true},
		{"+8:00", 0, true},
		{"-0:30", 0, true},
		{"0008:00", 0, true},
		{"08:+5", 0, true},
		{"08:00:-1", 0, true},
		{"08:00:5", 0, true},
		{" 8:00", 480, false},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseClockEmpty(t *testing.T) {
	if _, err := timecalc.ParseClock(""); !errors.Is(err, timecalc.ErrEmptyClock) {
		t.Errorf("ParseClock(\"\") error = %v, want ErrEmptyClock", err)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{485, "08:05"},
		{1439, "23:59"},
		{1500, "25:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestClockOf(t *testing.T) {
	ts := time.Date(2026, 10, 17, 7, 4, 59, 0, time.UTC)
	if got := timecalc.ClockOf(ts); got != "07:04" {
		t.Errorf("ClockOf = %q, want %q", got, "07:04")
	}
}

func TestIntervalMinutes(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
		ok         bool
	}{
		{"08:00", "12:00", 240, true},
		{"13:00", "13:01", 1, true},
		{"12:00", "12:00", 0, false},
		{"12:00", "08:00", 0, false},
		{"", "08:00", 0, false},
		{"08:00", "xx", 0, false},
	}
	for _, tt := range tests {
		got, ok := timecalc.IntervalMinutes(tt.start, tt.end)
		if got != tt.want || ok != tt.ok {
			t.Errorf("IntervalMinutes(%q, %q) = %d, %v; want %d, %v", tt.start, tt.end, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHoursRoundTrip(t *testing.T) {
	tests := []struct {
		minutes int
		hours   float64
	}{
		{0, 0},
		{60, 1},
		{90, 1.5},
		{20, 0.33},
		{270, 4.5},
	}
	for _, tt := range tests {
		if got := timecalc.HoursFromMinutes(tt.minutes); got != tt.hours {
			t.Errorf("HoursFromMinutes(%d) = %v, want %v", tt.minutes, got, tt.hours)
		}
		if got := timecalc.MinutesFromHours(tt.hours); got != tt.minutes {
			t.Errorf("MinutesFromHours(%v) = %d, want %d", tt.hours, got, tt.minutes)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"08:00", 480, false},
		{"25:30", 1530, false},
		{"7.5", 450, false},
		{"x", 0, true},
		{"1:99", 0, true},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{61, "1h 1m"},
		{510, "8h 30m"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	if got := timecalc.ISOWeekLabel(fri); got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestDayBounds(t *testing.T) {
	ts := time.Date(2026, 10, 17, 14, 22, 0, 0, time.UTC)
	if got := timecalc.StartOfDay(ts); !got.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay = %v", got)
	}
	if got := timecalc.EndOfDay(ts); !got.Equal(time.Date(2026, 10, 17, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("EndOfDay = %v", got)
	}
	if got := timecalc.DateKey(ts); got != "2026-10-17" {
		t.Errorf("DateKey = %q", got)
	}
}
