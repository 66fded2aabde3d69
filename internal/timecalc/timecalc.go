package timecalc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of calendar dates on the wire and on disk.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds a valid time-of-day offset.
const MinutesPerDay = 24 * 60

// ErrEmptyClock is returned by ParseClock for an empty string.
var ErrEmptyClock = errors.New("empty time of day")

// ParseClock converts "HH:MM", "H:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are accepted for backends that send them and are truncated.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyClock
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, ok := clockField(parts[0], 1)
	if !ok || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, ok := clockField(parts[1], 2)
	if !ok || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		if sec, ok := clockField(parts[2], 2); !ok || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}
	return h*60 + m, nil
}

// clockField reads minLen to 2 ASCII digits. Signs and extra digits are rejected.
func clockField(f string, minLen int) (int, bool) {
	if len(f) < minLen || len(f) > 2 {
		return 0, false
	}
	n := 0
	for _, r := range f {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// FormatClock formats minutes since midnight as zero-padded "HH:MM".
// Values of a day or more are not wrapped, so it also renders durations.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockOf returns the hour and minute of t as "HH:MM".
func ClockOf(t time.Time) string {
	return t.Format("15:04")
}

// IntervalMinutes returns end-start for two time-of-day strings. ok is false
// when either side is unparsable or the interval does not advance.
func IntervalMinutes(start, end string) (int, bool) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, false
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, false
	}
	if e <= s {
		return 0, false
	}
	return e - s, true
}

// HoursFromMinutes converts minutes to decimal hours rounded to two places.
func HoursFromMinutes(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// MinutesFromHours converts decimal hours to whole minutes.
func MinutesFromHours(hours float64) int {
	return int(math.Round(hours * 60))
}

// ParseDuration reads a total-hours string, either "HH:MM" (hours may exceed
// 23) or decimal hours such as "7.5".
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if h, m, ok := strings.Cut(s, ":"); ok {
		hh, err := strconv.Atoi(h)
		if err != nil || hh < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		mm, err := strconv.Atoi(m)
		if err != nil || mm < 0 || mm > 59 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return hh*60 + mm, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return MinutesFromHours(f), nil
}

// FormatDuration formats minutes as a human-readable string like "1h 40m" or "45m".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// DateKey returns the calendar date of t as "YYYY-MM-DD".
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
