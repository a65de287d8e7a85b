// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"todos/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	todos  []service.Todo
	nextID int
	calls  map[string]int

	// Error injection for testing
	GetTodosErr       error
	AddTodoErr        error
	ToggleTodoErr     error
	DeleteTodoErr     map[string]error // todo id -> error
	ClearCompletedErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		calls:         make(map[string]int),
		DeleteTodoErr: make(map[string]error),
	}
}

// AddItem appends a todo with a fixed id.
func (f *FakeService) AddItem(id, text string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, service.Todo{ID: id, Text: text, Completed: completed})
}

// Items returns a copy of the stored todos.
func (f *FakeService) Items() []service.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Todo{}, f.todos...)
}

// Calls returns how many times the named method was called.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

// GetTodos implements service.Service.
func (f *FakeService) GetTodos(ctx context.Context) ([]service.Todo, error) {
	f.record("GetTodos")
	if f.GetTodosErr != nil {
		return nil, f.GetTodosErr
	}
	return f.Items(), nil
}

// AddTodo implements service.Service.
func (f *FakeService) AddTodo(ctx context.Context, text string) (service.Todo, error) {
	f.record("AddTodo")
	if f.AddTodoErr != nil {
		return service.Todo{}, f.AddTodoErr
	}
	text, err := service.NormalizeText(text)
	if err != nil {
		return service.Todo{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	todo := service.Todo{ID: fmt.Sprintf("fake-%d", f.nextID), Text: text}
	f.todos = append(f.todos, todo)
	return todo, nil
}

// ToggleTodo implements service.Service.
func (f *FakeService) ToggleTodo(ctx context.Context, id string, completed bool) error {
	f.record("ToggleTodo")
	if f.ToggleTodoErr != nil {
		return f.ToggleTodoErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i].Completed = completed
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	f.record("DeleteTodo")
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.DeleteTodoErr[id]; err != nil {
		return err
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// ClearCompleted implements service.Service.
func (f *FakeService) ClearCompleted(ctx context.Context) error {
	f.record("ClearCompleted")
	if f.ClearCompletedErr != nil {
		return f.ClearCompletedErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = service.Apply(f.todos, service.FilterActive)
	return nil
}
