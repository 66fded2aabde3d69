package model

import (
	"fmt"
	"time"
)

// PunchField identifies one of the six punch slots of a day.
type PunchField int

// Punch slots in fill order.
const (
	Entrada1 PunchField = iota
	Saida1
	Entrada2
	Saida2
	Entrada3
	Saida3
)

// PunchSlots is the number of punch slots in a TimeEntry.
const PunchSlots = 6

// PairCount is the number of entrada/saida pairs in a TimeEntry.
const PairCount = PunchSlots / 2

var punchFieldNames = [PunchSlots]string{"entrada1", "saida1", "entrada2", "saida2", "entrada3", "saida3"}

func (f PunchField) String() string {
	if f < 0 || int(f) >= PunchSlots {
		return fmt.Sprintf("PunchField(%d)", int(f))
	}
	return punchFieldNames[f]
}

// ParsePunchField maps a wire name such as "saida2" back to its slot.
func ParsePunchField(s string) (PunchField, error) {
	for i, name := range punchFieldNames {
		if name == s {
			return PunchField(i), nil
		}
	}
	return 0, fmt.Errorf("unknown punch field %q", s)
}

// TimePair is one entrada/saida pair. Either side may be empty.
type TimePair struct {
	Entrada string `json:"entrada"`
	Saida   string `json:"saida"`
}

// Complete reports whether both sides of the pair are set.
func (p TimePair) Complete() bool {
	return p.Entrada != "" && p.Saida != ""
}

// Allocation assigns part of a day's worked time to a project.
type Allocation struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name,omitempty"`
	Hours       float64 `json:"hours"`
}

// TimeEntry is the attendance record of one employee for one calendar day.
type TimeEntry struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Date        string       `json:"date"`
	Entrada1    string       `json:"entrada1,omitempty"`
	Saida1      string       `json:"saida1,omitempty"`
	Entrada2    string       `json:"entrada2,omitempty"`
	Saida2      string       `json:"saida2,omitempty"`
	Entrada3    string       `json:"entrada3,omitempty"`
	Saida3      string       `json:"saida3,omitempty"`
	TotalHours  string       `json:"total_hours"`
	Allocations []Allocation `json:"allocations"`
	Version     int64        `json:"version"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Punch returns the value of slot f.
func (e TimeEntry) Punch(f PunchField) string {
	switch f {
	case Entrada1:
		return e.Entrada1
	case Saida1:
		return e.Saida1
	case Entrada2:
		return e.Entrada2
	case Saida2:
		return e.Saida2
	case Entrada3:
		return e.Entrada3
	case Saida3:
		return e.Saida3
	}
	return ""
}

// SetPunch stores v in slot f.
func (e *TimeEntry) SetPunch(f PunchField, v string) {
	switch f {
	case Entrada1:
		e.Entrada1 = v
	case Saida1:
		e.Saida1 = v
	case Entrada2:
		e.Entrada2 = v
	case Saida2:
		e.Saida2 = v
	case Entrada3:
		e.Entrada3 = v
	case Saida3:
		e.Saida3 = v
	}
}

// Pairs returns the three entrada/saida pairs in order.
func (e TimeEntry) Pairs() [PairCount]TimePair {
	return [PairCount]TimePair{
		{Entrada: e.Entrada1, Saida: e.Saida1},
		{Entrada: e.Entrada2, Saida: e.Saida2},
		{Entrada: e.Entrada3, Saida: e.Saida3},
	}
}

// NewEntry is the payload for creating the first record of a day.
type NewEntry struct {
	UserID      string                `json:"user_id"`
	Date        string                `json:"date"`
	Punches     map[PunchField]string `json:"-"`
	TotalHours  string                `json:"total_hours,omitempty"`
	Allocations []Allocation          `json:"allocations,omitempty"`
}

// EntryPatch carries a partial update. Nil fields are left unchanged.
// A non-zero Version must match the stored version.
type EntryPatch struct {
	Punches     map[PunchField]string `json:"-"`
	TotalHours  *string               `json:"total_hours,omitempty"`
	Allocations *[]Allocation         `json:"allocations,omitempty"`
	Version     int64                 `json:"version,omitempty"`
}

// Apply merges the patch into e. Allocation ids are left to the caller.
func (p EntryPatch) Apply(e *TimeEntry) {
	for f, v := range p.Punches {
		e.SetPunch(f, v)
	}
	if p.TotalHours != nil {
		e.TotalHours = *p.TotalHours
	}
	if p.Allocations != nil {
		e.Allocations = append([]Allocation(nil), (*p.Allocations)...)
	}
}
