package controller

import "todos/internal/service"

// State is a consistent snapshot of the controller.
type State struct {
	Mode      service.Mode
	Todos     []service.Todo
	Filter    service.Filter
	Filtered  []service.Todo
	Remaining int
	Loading   bool
	Err       string
}

// HasCompleted reports whether any todo is completed.
func (s State) HasCompleted() bool {
	return len(s.Todos) > service.Remaining(s.Todos)
}

// Empty reports whether the filtered view shows nothing.
func (s State) Empty() bool {
	return len(s.Filtered) == 0
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	todos := append([]service.Todo{}, c.todos...)
	return State{
		Mode:      c.mode,
		Todos:     todos,
		Filter:    c.filter,
		Filtered:  service.Apply(todos, c.filter),
		Remaining: service.Remaining(todos),
		Loading:   c.loading(),
		Err:       c.errMsg,
	}
}

// SetFilter changes the status filter.
func (c *Controller) SetFilter(f service.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Filter returns the status filter.
func (c *Controller) Filter() service.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Todos returns a copy of the cached list.
func (c *Controller) Todos() []service.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]service.Todo{}, c.todos...)
}

// Filtered returns the cached todos that pass the filter.
func (c *Controller) Filtered() []service.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return service.Apply(c.todos, c.filter)
}

// Remaining counts the cached todos that are not completed.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return service.Remaining(c.todos)
}

// HasCompleted reports whether any cached todo is completed.
func (c *Controller) HasCompleted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.todos) > service.Remaining(c.todos)
}

// Loading reports whether a load is in flight. A controller that has not
// finished its first load is loading.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading()
}

// loading requires c.mu.
func (c *Controller) loading() bool {
	return c.inflight > 0 || !c.loaded
}

// Err returns the error message of the last failed operation, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Cause returns the underlying error of the last failed operation.
func (c *Controller) Cause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
