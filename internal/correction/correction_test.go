package correction_test

import (
	"errors"
	"testing"

	"github.com/Tiliavir/ponto/internal/correction"
	"github.com/Tiliavir/ponto/internal/model"
)

func validCorrection() model.TimeCorrection {
	return model.TimeCorrection{
		Date:          "2026-10-16",
		Pairs:         []model.TimePair{{Entrada: "08:00", Saida: "12:00"}},
		Justification: "forgot to punch out",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.TimeCorrection)
		ok     bool
	}{
		{"valid", func(*model.TimeCorrection) {}, true},
		{"with document", func(c *model.TimeCorrection) { c.DocumentName = "atestado.pdf" }, true},
		{"partial second pair", func(c *model.TimeCorrection) {
			c.Pairs = append(c.Pairs, model.TimePair{Entrada: "13:00"})
		}, true},
		{"missing date", func(c *model.TimeCorrection) { c.Date = "" }, false},
		{"bad date", func(c *model.TimeCorrection) { c.Date = "16/10/2026" }, false},
		{"no pairs", func(c *model.TimeCorrection) { c.Pairs = nil }, false},
		{"only incomplete pairs", func(c *model.TimeCorrection) {
			c.Pairs = []model.TimePair{{Entrada: "08:00"}, {Saida: "12:00"}}
		}, false},
		{"unparsable time", func(c *model.TimeCorrection) { c.Pairs[0].Saida = "25:00" }, false},
		{"too many pairs", func(c *model.TimeCorrection) {
			c.Pairs = append(c.Pairs, c.Pairs[0], c.Pairs[0], c.Pairs[0])
		}, false},
		{"blank justification", func(c *model.TimeCorrection) { c.Justification = "   " }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCorrection()
			tt.mutate(&c)
			err := correction.Validate(c)
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, correction.ErrInvalid) {
				t.Errorf("Validate err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestNewCard(t *testing.T) {
	card, err := correction.NewCard(validCorrection(), "")
	if err != nil {
		t.Fatal(err)
	}
	if card.Status != model.StatusTodo {
		t.Errorf("Status = %q, want todo", card.Status)
	}
	if card.Title != "Time correction 2026-10-16" {
		t.Errorf("Title = %q", card.Title)
	}
	if card.Description != "forgot to punch out" {
		t.Errorf("Description = %q", card.Description)
	}
	if card.Correction == nil || len(card.Correction.Pairs) != 1 {
		t.Fatalf("Correction = %+v", card.Correction)
	}
	if len(card.Tags) != 1 || card.Tags[0] != correction.Tag {
		t.Errorf("Tags = %v", card.Tags)
	}

	if _, err := correction.NewCard(model.TimeCorrection{}, "x"); err == nil {
		t.Error("NewCard accepted an empty correction")
	}
}

func TestFromEntry(t *testing.T) {
	e := model.TimeEntry{Date: "2026-10-16", Entrada1: "08:00", Saida1: "12:00", Entrada2: "13:00"}
	c := correction.FromEntry(e)
	if c.Date != "2026-10-16" {
		t.Errorf("Date = %q", c.Date)
	}
	if len(c.Pairs) != 2 || c.Pairs[1].Entrada != "13:00" || c.Pairs[1].Saida != "" {
		t.Errorf("Pairs = %+v", c.Pairs)
	}
}

func TestParsePair(t *testing.T) {
	p, err := correction.ParsePair(" 08:00 - 12:00 ")
	if err != nil || p.Entrada != "08:00" || p.Saida != "12:00" {
		t.Errorf("ParsePair = %+v, %v", p, err)
	}
	if _, err := correction.ParsePair("0800"); !errors.Is(err, correction.ErrInvalid) {
		t.Errorf("ParsePair without dash err = %v", err)
	}
}
