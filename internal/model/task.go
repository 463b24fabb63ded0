package model

import (
	"errors"
	"sort"
	"strings"
)

// ErrEmptyLabel is returned when a task label is blank after trimming.
var ErrEmptyLabel = errors.New("empty label")

// Label identifies a task. It is never empty.
type Label string

// NewLabel trims s and rejects the empty result.
func NewLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyLabel
	}
	return Label(s), nil
}

func (l Label) String() string { return string(l) }

// Status is the human-readable completion state of a task.
type Status string

const (
	StatusComplete   Status = "Complete"
	StatusIncomplete Status = "Incomplete"
)

// StatusOf maps the stored flag to a Status.
// Stored flags use true for incomplete and false for completed.
func StatusOf(incomplete bool) Status {
	if incomplete {
		return StatusIncomplete
	}
	return StatusComplete
}

// Done reports whether s is StatusComplete.
func (s Status) Done() bool { return s == StatusComplete }

// Task is a label together with its status, used for rendering.
type Task struct {
	Label  string
	Status Status
}

// SortTasks orders tasks by label.
func SortTasks(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Label < tasks[j].Label })
}
