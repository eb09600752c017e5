package models

import (
	"strings"
	"time"
)

// DateRange represents a range of instants. A zero bound is open.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// FormatDate formats a time as DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DD/MM/YYYY string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// NewValidationErrors tags every message with the form section it came from.
func NewValidationErrors(field string, messages []string) ValidationErrors {
	ve := make(ValidationErrors, 0, len(messages))
	for _, msg := range messages {
		ve = append(ve, ValidationError{Field: field, Message: msg})
	}
	return ve
}

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, err := range ve {
		if err.Field != "" {
			parts[i] = err.Field + ": " + err.Message
		} else {
			parts[i] = err.Message
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
