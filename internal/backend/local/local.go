// Package local implements service.Service on top of a durable key-value slot.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"todos/internal/kv"
	"todos/internal/logging"
	"todos/internal/service"
)

// DefaultKey is the slot key holding the serialized list.
const DefaultKey = "todos"

// Seed is a todo created when the slot is empty or corrupt.
type Seed struct {
	Text      string
	Completed bool
}

// DefaultSeeds are written to an empty slot.
var DefaultSeeds = []Seed{
	{Text: "Get started with Ocean Todos"},
	{Text: "Style your todo app!", Completed: true},
	{Text: "Click a todo to mark complete"},
}

// Store implements service.Service using a kv.Store slot.
// Every mutation reads the full list, applies the change and writes the
// full list back with a single slot write.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	seeds  []Seed
	newID  func() string
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithSeeds overrides the seed items. nil disables seeding.
func WithSeeds(seeds []Seed) Option {
	return func(s *Store) { s.seeds = seeds }
}

// WithIDFunc overrides id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the clock used for id prefixes.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store over slots.
func New(slots kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    slots,
		key:   DefaultKey,
		seeds: DefaultSeeds,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		s.newID = func() string { return genID(s.now()) }
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

// GetTodos implements service.Service.
func (s *Store) GetTodos(ctx context.Context) ([]service.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.load()
	if err != nil {
		return nil, service.Wrap("get", "", err)
	}
	return todos, nil
}

// AddTodo implements service.Service.
func (s *Store) AddTodo(ctx context.Context, text string) (service.Todo, error) {
	text, err := service.NormalizeText(text)
	if err != nil {
		return service.Todo{}, service.Wrap("add", "", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.load()
	if err != nil {
		return service.Todo{}, service.Wrap("add", "", err)
	}

	todo := service.Todo{ID: s.uniqueID(todos), Text: text}
	if err := s.save(append(todos, todo)); err != nil {
		return service.Todo{}, service.Wrap("add", "", err)
	}
	s.logger.Debug("todo added", "id", todo.ID)
	return todo, nil
}

// ToggleTodo implements service.Service.
func (s *Store) ToggleTodo(ctx context.Context, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.load()
	if err != nil {
		return service.Wrap("toggle", id, err)
	}

	i := indexOf(todos, id)
	if i < 0 {
		return service.Wrap("toggle", id, service.ErrNotFound)
	}
	todos[i].Completed = completed
	return service.Wrap("toggle", id, s.save(todos))
}

// DeleteTodo implements service.Service.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.load()
	if err != nil {
		return service.Wrap("delete", id, err)
	}

	i := indexOf(todos, id)
	if i < 0 {
		return service.Wrap("delete", id, service.ErrNotFound)
	}
	return service.Wrap("delete", id, s.save(append(todos[:i], todos[i+1:]...)))
}

// ClearCompleted implements service.Service.
func (s *Store) ClearCompleted(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.load()
	if err != nil {
		return service.Wrap("clear", "", err)
	}
	return service.Wrap("clear", "", s.save(service.Apply(todos, service.FilterActive)))
}

// load reads the slot, reseeding it if it is empty or corrupt.
// Caller must hold s.mu.
func (s *Store) load() ([]service.Todo, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, err
	}

	if ok {
		todos, err := decode(data)
		switch {
		case err == nil:
			return todos, nil
		case isEmptyList(data):
			s.logger.Debug("local todos empty", "key", s.key)
		case len(s.seeds) == 0:
			s.logger.Warn("local todos unreadable, starting empty", "key", s.key, "err", err)
		default:
			s.logger.Warn("local todos unreadable, reseeding", "key", s.key, "err", err)
		}
	}

	if len(s.seeds) == 0 {
		return []service.Todo{}, nil
	}

	todos := make([]service.Todo, 0, len(s.seeds))
	for _, seed := range s.seeds {
		todos = append(todos, service.Todo{
			ID:        s.uniqueID(todos),
			Text:      seed.Text,
			Completed: seed.Completed,
		})
	}
	if err := s.save(todos); err != nil {
		return nil, fmt.Errorf("persist seed todos: %w", err)
	}
	s.logger.Debug("seeded local todos", "count", len(todos))
	return todos, nil
}

// save writes todos to the slot. Caller must hold s.mu.
func (s *Store) save(todos []service.Todo) error {
	if todos == nil {
		todos = []service.Todo{}
	}
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("encode todos: %w", err)
	}
	return s.kv.Set(s.key, data)
}

func (s *Store) uniqueID(todos []service.Todo) string {
	for {
		id := s.newID()
		if indexOf(todos, id) < 0 {
			return id
		}
	}
}

func indexOf(todos []service.Todo, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
