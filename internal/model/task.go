package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Task status constants.
const (
	StatusPending   = "pending"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

// Priority bounds. 5 is the most urgent.
const (
	PriorityMin = 1
	PriorityMax = 5
)

// Task is a single unit of work with a calendar deadline.
type Task struct {
	// ID is the unique identifier, immutable after creation.
	ID string `json:"id" db:"id"`

	// Title is the human-readable summary, non-empty and at most 100 characters.
	Title string `json:"title" db:"title"`

	// Date is the due date in YYYY-MM-DD form. Required.
	Date string `json:"date" db:"date"`

	// Time is the optional due time of day in HH:MM form. When empty the
	// task is due at 23:59 on Date.
	Time string `json:"time,omitempty" db:"time"`

	// Priority ranges from 1 (lowest) to 5 (most urgent).
	Priority int `json:"priority" db:"priority"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// Duration is the estimated effort in minutes. Zero means unset.
	Duration int `json:"duration,omitempty" db:"duration"`

	// Tags holds free-text labels attached to the task.
	Tags []string `json:"tags,omitempty" db:"-"`
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// ClampPriority forces p into the [PriorityMin, PriorityMax] range. Used when
// ingesting remote data; local input is rejected by Validate instead.
func ClampPriority(p int) int {
	if p < PriorityMin {
		return PriorityMin
	}
	if p > PriorityMax {
		return PriorityMax
	}
	return p
}

// Validate checks all field contracts and reports every violation found, not
// just the first.
func (t Task) Validate() error {
	var violations []string

	if strings.TrimSpace(t.Title) == "" {
		violations = append(violations, "title is required")
	} else if len([]rune(t.Title)) > 100 {
		violations = append(violations, "title must be at most 100 characters")
	}

	if t.Date == "" {
		violations = append(violations, "date is required")
	} else if !datePattern.MatchString(t.Date) {
		violations = append(violations, "date must use the YYYY-MM-DD format")
	}

	if t.Time != "" && !timePattern.MatchString(t.Time) {
		violations = append(violations, "time must use the HH:MM format")
	}

	if t.Priority < PriorityMin || t.Priority > PriorityMax {
		violations = append(violations,
			fmt.Sprintf("priority must be between %d and %d", PriorityMin, PriorityMax))
	}

	switch t.Status {
	case StatusPending, StatusDone, StatusCancelled:
	case "":
		violations = append(violations, "status is required")
	default:
		violations = append(violations, fmt.Sprintf("unknown status %q", t.Status))
	}

	if t.Duration < 0 || t.Duration > 1440 {
		violations = append(violations, "duration must be between 1 minute and 24 hours")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Active reports whether the task still participates in deadline detection.
func (t Task) Active() bool {
	return t.Status != StatusDone && t.Status != StatusCancelled
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing the Tags slice.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}
