// Package controller owns the in-memory todo list the user interfaces
// display, and keeps it consistent with the storage backend.
//
// After a successful mutation the controller either reloads the whole list
// (remote mode, the server is the source of truth) or applies the same
// change to its cache (local mode, the cache and the slot move in lockstep).
// Failed operations leave the cache untouched and set a single error message.
//
// Loads are guarded by a generation counter: a load only applies its result
// if no newer load or local cache write happened after it started. After
// Close no result is applied at all.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"todos/internal/logging"
	"todos/internal/service"
)

// ErrUnknownTodo is returned by Toggle when the id is not in the cache.
var ErrUnknownTodo = errors.New("todo not in list")

// Controller is the application state controller.
// It is safe for concurrent use.
type Controller struct {
	svc    service.Service
	mode   service.Mode
	logger *log.Logger

	mu       sync.Mutex
	todos    []service.Todo
	filter   service.Filter
	inflight int    // loads in progress
	loaded   bool   // a load has completed, successfully or not
	gen      uint64 // bumped by every load and every local cache write
	errMsg   string
	lastErr  error
	closed   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller over svc. mode is the session's backend mode and
// never changes afterwards.
func New(svc service.Service, mode service.Mode, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		mode:   mode,
		filter: service.FilterAll,
		todos:  []service.Todo{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

// Mode returns the backend mode.
func (c *Controller) Mode() service.Mode {
	return c.mode
}

// Load fetches the full list and replaces the cache.
func (c *Controller) Load(ctx context.Context) error {
	c.begin()
	return c.reload(ctx)
}

// Add creates a todo.
func (c *Controller) Add(ctx context.Context, text string) error {
	text, err := service.NormalizeText(text)
	if err != nil {
		return err
	}

	gen := c.begin()
	todo, err := c.svc.AddTodo(ctx, text)
	if err != nil {
		return c.fail(OpAdd, err)
	}
	return c.afterMutation(ctx, gen, func(todos []service.Todo) []service.Todo {
		if indexOf(todos, todo.ID) >= 0 {
			return todos
		}
		return append(todos, todo)
	})
}

// Toggle flips the completed flag of the cached todo with the given id.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	i := indexOf(c.todos, id)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownTodo
	}
	target := !c.todos[i].Completed
	c.mu.Unlock()

	gen := c.begin()
	if err := c.svc.ToggleTodo(ctx, id, target); err != nil {
		return c.fail(OpToggle, err)
	}
	return c.afterMutation(ctx, gen, func(todos []service.Todo) []service.Todo {
		if j := indexOf(todos, id); j >= 0 {
			todos[j].Completed = target
		}
		return todos
	})
}

// Delete removes a todo.
func (c *Controller) Delete(ctx context.Context, id string) error {
	gen := c.begin()
	if err := c.svc.DeleteTodo(ctx, id); err != nil {
		return c.fail(OpDelete, err)
	}
	return c.afterMutation(ctx, gen, func(todos []service.Todo) []service.Todo {
		if j := indexOf(todos, id); j >= 0 {
			return append(todos[:j], todos[j+1:]...)
		}
		return todos
	})
}

// ClearCompleted removes every completed todo.
// In remote mode a failure may still have removed some todos; the cache is
// left as it was until the next successful load.
func (c *Controller) ClearCompleted(ctx context.Context) error {
	gen := c.begin()
	if err := c.svc.ClearCompleted(ctx); err != nil {
		return c.fail(OpClear, err)
	}
	return c.afterMutation(ctx, gen, func(todos []service.Todo) []service.Todo {
		return service.Apply(todos, service.FilterActive)
	})
}

// Close stops the controller from applying any further results.
// Operations already in flight still reach the backend.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// begin clears the error slot at the start of an operation and returns the
// cache generation the operation started from.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.errMsg = ""
		c.lastErr = nil
	}
	return c.gen
}

// fail records err in the error slot and returns it as an *OpError.
func (c *Controller) fail(op Op, err error) error {
	opErr := &OpError{Op: op, Err: err}
	c.logger.Debug("operation failed", "op", op, "err", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.errMsg = op.Message()
		c.lastErr = err
	}
	return opErr
}

// afterMutation reconciles the cache after a successful mutation that
// started at generation gen. A local mutation patches the cache only if no
// load ran or is running since then; a load may have read the slot after
// the write, so in that case it reloads instead.
func (c *Controller) afterMutation(ctx context.Context, gen uint64, apply func([]service.Todo) []service.Todo) error {
	if c.mode == service.ModeRemote {
		return c.reload(ctx)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if c.inflight > 0 || c.gen != gen {
		c.mu.Unlock()
		return c.reload(ctx)
	}
	c.gen++
	c.todos = apply(append([]service.Todo(nil), c.todos...))
	c.mu.Unlock()
	return nil
}

// reload fetches the list and applies it unless a newer load or local
// mutation has happened in the meantime.
func (c *Controller) reload(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.inflight++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	todos, err := c.svc.GetTodos(ctx)
	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()
	if err != nil {
		return c.fail(OpLoad, err)
	}
	if todos == nil {
		todos = []service.Todo{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if gen != c.gen {
		c.logger.Debug("discarding stale load", "gen", gen, "current", c.gen)
		return nil
	}
	c.todos = todos
	return nil
}

func indexOf(todos []service.Todo, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
