package models

import (
	"encoding/json"
	"fmt"
)

// StatusType is the normalized status category used for column placement.
type StatusType string

const (
	StatusTodo       StatusType = "todo"
	StatusInProgress StatusType = "in_progress"
	StatusInReview   StatusType = "in_review"
	StatusDone       StatusType = "done"
)

// Status is the task status as the server sends it. The API returns either
// a bare type tag ("in_progress") or a full workflow-status object
// ({id, name, type, color}); both decode into this one type and callers
// only ever branch on Type().
type Status struct {
	ID    int64
	Name  string
	Kind  StatusType
	Color string

	// detailed is true when the server sent the object form.
	detailed bool
}

// PlainStatus returns the bare-tag form of a status.
func PlainStatus(t StatusType) Status {
	return Status{Kind: t}
}

// DetailedStatus returns the object form of a status.
func DetailedStatus(id int64, name string, t StatusType, color string) Status {
	return Status{ID: id, Name: name, Kind: t, Color: color, detailed: true}
}

// Type returns the normalized status category. This is the only accessor
// column placement may use.
func (s Status) Type() StatusType {
	return s.Kind
}

// Title returns a human-readable name for the status.
func (s Status) Title() string {
	if s.detailed && s.Name != "" {
		return s.Name
	}
	switch s.Kind {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusInReview:
		return "In Review"
	case StatusDone:
		return "Done"
	}
	return string(s.Kind)
}

type statusObject struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Type  StatusType `json:"type"`
	Color string     `json:"color"`
}

// UnmarshalJSON accepts both the bare string form and the object form.
func (s *Status) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var t StatusType
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		*s = Status{Kind: t}
		return nil
	}

	var obj statusObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}
	*s = Status{ID: obj.ID, Name: obj.Name, Kind: obj.Type, Color: obj.Color, detailed: true}
	return nil
}

// MarshalJSON writes back the same form that was received.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.detailed {
		return json.Marshal(s.Kind)
	}
	return json.Marshal(statusObject{ID: s.ID, Name: s.Name, Type: s.Kind, Color: s.Color})
}
