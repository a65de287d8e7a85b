package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todos/internal/service"
)

// ErrRefRequired indicates no todo number was provided.
var ErrRefRequired = errors.New("todo number required")

// ParseRef parses a 1-based todo number from args.
// Numbers refer to positions in the unfiltered list, as printed by list.
func ParseRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := strings.TrimSpace(args[0])
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid todo number: %s", args[0])
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid todo number: %s", args[0])
	}
	return n, nil
}

// resolveRef returns the n-th todo of todos.
func resolveRef(todos []service.Todo, n int) (service.Todo, error) {
	if n < 1 || n > len(todos) {
		return service.Todo{}, fmt.Errorf("todo number out of range: %d", n)
	}
	return todos[n-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
