package model

import "encoding/json"

type newEntryWire struct {
	UserID      string       `json:"user_id"`
	Date        string       `json:"date"`
	TotalHours  string       `json:"total_hours,omitempty"`
	Allocations []Allocation `json:"allocations,omitempty"`
}

type entryPatchWire struct {
	TotalHours  *string       `json:"total_hours,omitempty"`
	Allocations *[]Allocation `json:"allocations,omitempty"`
	Version     int64         `json:"version,omitempty"`
}

func (n NewEntry) MarshalJSON() ([]byte, error) {
	return marshalWithPunches(newEntryWire{
		UserID:      n.UserID,
		Date:        n.Date,
		TotalHours:  n.TotalHours,
		Allocations: n.Allocations,
	}, n.Punches)
}

func (n *NewEntry) UnmarshalJSON(data []byte) error {
	var w newEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	punches, err := unmarshalPunches(data)
	if err != nil {
		return err
	}
	*n = NewEntry{
		UserID:      w.UserID,
		Date:        w.Date,
		Punches:     punches,
		TotalHours:  w.TotalHours,
		Allocations: w.Allocations,
	}
	return nil
}

func (p EntryPatch) MarshalJSON() ([]byte, error) {
	return marshalWithPunches(entryPatchWire{
		TotalHours:  p.TotalHours,
		Allocations: p.Allocations,
		Version:     p.Version,
	}, p.Punches)
}

func (p *EntryPatch) UnmarshalJSON(data []byte) error {
	var w entryPatchWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	punches, err := unmarshalPunches(data)
	if err != nil {
		return err
	}
	*p = EntryPatch{
		Punches:     punches,
		TotalHours:  w.TotalHours,
		Allocations: w.Allocations,
		Version:     w.Version,
	}
	return nil
}

// marshalWithPunches encodes v and adds each punch as its own
// entradaN/saidaN key next to v's fields.
func marshalWithPunches(v any, punches map[PunchField]string) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(punches) == 0 {
		return base, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for f, val := range punches {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		fields[f.String()] = raw
	}
	return json.Marshal(fields)
}

func unmarshalPunches(data []byte) (map[PunchField]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	var punches map[PunchField]string
	for i, name := range punchFieldNames {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if punches == nil {
			punches = map[PunchField]string{}
		}
		punches[PunchField(i)] = v
	}
	return punches, nil
}
