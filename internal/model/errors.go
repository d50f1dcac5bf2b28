package model

import (
	"fmt"
	"strings"
)

// ValidationError reports every field contract violation found in a task,
// never just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid task: " + strings.Join(e.Violations, "; ")
}

// NotFoundError indicates an operation referenced an unknown task or
// notification id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
