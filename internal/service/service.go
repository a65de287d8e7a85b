// Package service defines the backend-agnostic interface for todo storage.
package service

import "context"

// Service is the storage adapter contract.
// Both the local and the remote backend implement it; the controller and
// the commands never know which one they are talking to.
type Service interface {
	// GetTodos returns every todo in backend order.
	// Local order is insertion order; remote order is whatever the server returns.
	GetTodos(ctx context.Context) ([]Todo, error)

	// AddTodo creates a todo and returns it with its assigned id.
	AddTodo(ctx context.Context, text string) (Todo, error)

	// ToggleTodo sets the completed flag of a todo.
	ToggleTodo(ctx context.Context, id string, completed bool) error

	// DeleteTodo removes a todo.
	DeleteTodo(ctx context.Context, id string) error

	// ClearCompleted removes every completed todo.
	// The remote backend does this with one delete per todo and may fail
	// after some of them succeeded.
	ClearCompleted(ctx context.Context) error
}
