// Package correction validates the time-correction payload an employee
// submits when disputing a day's record.
package correction

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// ErrInvalid is returned for a payload that cannot be submitted.
var ErrInvalid = apperr.New(apperr.KindValidation, "invalid_correction", "correction request is incomplete")

// Tag marks cards created from a correction request.
const Tag = "correction"

// Validate reports whether c is submittable: a valid date, at most three
// pairs of which at least one is complete, parsable times, and a non-blank
// justification.
func Validate(c model.TimeCorrection) error {
	if _, err := time.Parse(timecalc.DateLayout, strings.TrimSpace(c.Date)); err != nil {
		return ErrInvalid.With("invalid date %q, want YYYY-MM-DD", c.Date)
	}
	if len(c.Pairs) > model.PairCount {
		return ErrInvalid.With("at most %d entrada/saida pairs are allowed, got %d", model.PairCount, len(c.Pairs))
	}
	complete := 0
	for i, p := range c.Pairs {
		for _, v := range []string{p.Entrada, p.Saida} {
			if v == "" {
				continue
			}
			if _, err := timecalc.ParseClock(v); err != nil {
				return ErrInvalid.With("pair %d: %v", i+1, err)
			}
		}
		if p.Complete() {
			complete++
		}
	}
	if complete == 0 {
		return ErrInvalid.With("at least one complete entrada/saida pair is required")
	}
	if strings.TrimSpace(c.Justification) == "" {
		return ErrInvalid.With("justification is required")
	}
	return nil
}

// Title is the default card title for a correction of date.
func Title(date string) string {
	return fmt.Sprintf("Time correction %s", date)
}

// NewCard builds the card draft for a new correction request. The card
// starts in the todo status; the caller chooses the column.
func NewCard(c model.TimeCorrection, title string) (model.Card, error) {
	if err := Validate(c); err != nil {
		return model.Card{}, err
	}
	c.Date = strings.TrimSpace(c.Date)
	c.Justification = strings.TrimSpace(c.Justification)
	c.Pairs = append([]model.TimePair(nil), c.Pairs...)
	if strings.TrimSpace(title) == "" {
		title = Title(c.Date)
	}
	return model.Card{
		Title:       title,
		Description: c.Justification,
		Status:      model.StatusTodo,
		Tags:        []string{Tag},
		Assignees:   []string{},
		Correction:  &c,
	}, nil
}

// FromEntry prefills a correction with the pairs currently recorded in e.
func FromEntry(e model.TimeEntry) model.TimeCorrection {
	c := model.TimeCorrection{Date: e.Date}
	for _, p := range e.Pairs() {
		if p.Entrada == "" && p.Saida == "" {
			continue
		}
		c.Pairs = append(c.Pairs, p)
	}
	return c
}

// ParsePair reads a pair written as "HH:MM-HH:MM". Either side may be empty.
func ParsePair(s string) (model.TimePair, error) {
	in, out, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return model.TimePair{}, ErrInvalid.With("invalid pair %q, want HH:MM-HH:MM", s)
	}
	return model.TimePair{Entrada: strings.TrimSpace(in), Saida: strings.TrimSpace(out)}, nil
}
