package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the only envelope version this build reads and writes.
const SchemaVersion = 1

// Status represents a task status.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"

	// StatusEmpty marks the synthetic placeholder rendered in a column with
	// no real tasks. It never appears in a persisted envelope.
	StatusEmpty Status = "empty"
)

// RealStatuses returns the statuses a persisted task may hold, in column order.
func RealStatuses() []Status {
	return []Status{StatusBacklog, StatusInProgress, StatusDone}
}

// Real reports whether s is a persistable status.
func (s Status) Real() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable column heading for s.
func (s Status) Label() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusEmpty:
		return "Empty"
	}
	return string(s)
}

// ParseStatus maps user-facing spellings to a real status.
// Accepted forms: "backlog", "in_progress", "in-progress", "inprogress",
// "progress", "done" (case-insensitive).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "backlog":
		return StatusBacklog, nil
	case "in_progress", "in-progress", "inprogress", "progress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q, must be one of: backlog, in_progress, done", s)
}

// Task represents a single card on the board.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
}

// New constructs a task with a fresh unique id and status backlog.
func New(title, description string) Task {
	return Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      StatusBacklog,
	}
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// IsPlaceholder reports whether t is the synthetic empty-column card.
func (t *Task) IsPlaceholder() bool {
	return t.Status == StatusEmpty
}

// Envelope is the persisted board structure.
type Envelope struct {
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`
	Tasks         []Task    `json:"tasks"`
}

// NewEnvelope wraps tasks in a current-version envelope stamped with now.
func NewEnvelope(tasks []Task) *Envelope {
	if tasks == nil {
		tasks = []Task{}
	}
	return &Envelope{
		SchemaVersion: SchemaVersion,
		SavedAt:       time.Now().UTC(),
		Tasks:         tasks,
	}
}

// Encode serializes the envelope with 2-space indentation.
func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal board envelope: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')
	return data, nil
}

// Decode parses a persisted envelope.
func Decode(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse board envelope: %w", err)
	}
	return &e, nil
}

// Clone returns a deep copy of the task slice so callers can hand out
// snapshots without exposing their backing array.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
