// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todos/internal/service"
)

// Empty state lines, printed when the filtered view has no todos.
const (
	EmptyTitle = "No todos here yet."
	EmptyHint  = "Get started by adding your first task!"
)

// FormatTodo formats a numbered todo line.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces, checkbox, text)
func FormatTodo(w io.Writer, num int, todo service.Todo) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(todo.Completed), DisplayText(todo.Text))
}

// Checkbox renders the completion marker.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// FormatRemaining formats the "N left" counter line.
func FormatRemaining(w io.Writer, remaining int) {
	fmt.Fprintf(w, "%d left\n", remaining)
}

// FormatEmpty prints the empty state.
func FormatEmpty(w io.Writer) {
	fmt.Fprintln(w, EmptyTitle)
	fmt.Fprintln(w, EmptyHint)
}

// FormatFilterBar formats the filter names, marking the active one.
// Example: "[All]  Active  Completed"
func FormatFilterBar(active service.Filter) string {
	parts := make([]string, 0, len(service.Filters))
	for _, f := range service.Filters {
		name := FilterLabel(f)
		if f == active {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "  ")
}

// FilterLabel capitalizes a filter name for display.
func FilterLabel(f service.Filter) string {
	s := string(f)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DisplayText normalizes a todo text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func DisplayText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
