package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the maximum number of characters in a todo text.
const MaxTextLength = 200

// Todo represents a single task item.
// Only Completed changes after creation.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NormalizeText trims text and checks it against the todo text rules.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return "", fmt.Errorf("%w: %d characters", ErrTextTooLong, n)
	}
	return text, nil
}

// Filter is the status filter applied to the list view.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter parses a filter name. The empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid filter: %s", s)
	}
}

// Match reports whether t passes the filter.
// Unknown filter values pass everything.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the todos matching f, preserving order.
func Apply(todos []Todo, f Filter) []Todo {
	result := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			result = append(result, t)
		}
	}
	return result
}

// Remaining counts the todos that are not completed.
func Remaining(todos []Todo) int {
	n := 0
	for _, t := range todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Mode selects which backend services the session.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// ModeFor returns ModeRemote if apiBase is non-empty after trimming.
func ModeFor(apiBase string) Mode {
	if strings.TrimSpace(apiBase) != "" {
		return ModeRemote
	}
	return ModeLocal
}
