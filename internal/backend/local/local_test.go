package local_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todos/internal/backend/local"
	"todos/internal/kv"
	"todos/internal/logging"
	"todos/internal/service"
)

// sequentialIDs returns an id generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func put(t *testing.T, slots kv.Store, todos []service.Todo) {
	t.Helper()
	data, err := json.Marshal(todos)
	require.NoError(t, err)
	require.NoError(t, slots.Set(local.DefaultKey, data))
}

func stored(t *testing.T, slots kv.Store) []service.Todo {
	t.Helper()
	data, ok, err := slots.Get(local.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok, "slot should be written")
	var todos []service.Todo
	require.NoError(t, json.Unmarshal(data, &todos))
	return todos
}

func TestGetTodos_SeedsEmptySlotOnce(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemoryStore()
	store := local.New(slots, local.WithIDFunc(sequentialIDs()))

	first, err := store.GetTodos(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "Get started with Ocean Todos", first[0].Text)
	assert.False(t, first[0].Completed)
	assert.Equal(t, "Style your todo app!", first[1].Text)
	assert.True(t, first[1].Completed)
	assert.Equal(t, "Click a todo to mark complete", first[2].Text)
	assert.False(t, first[2].Completed)

	// Seeds are persisted immediately.
	assert.Equal(t, first, stored(t, slots))

	// A second store over the populated slot must not reseed.
	again := local.New(slots, local.WithIDFunc(sequentialIDs()))
	second, err := again.GetTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetTodos_ReseedsCorruptSlot(t *testing.T) {
	cases := map[string]string{
		"garbage":      `{{{not json`,
		"empty array":  `[]`,
		"object":       `{"id":"a"}`,
		"null":         `null`,
		"wrong fields": `[{"id":"a","text":"x","completed":"yes"}]`,
		"missing id":   `[{"text":"x","completed":false}]`,
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			slots := kv.NewMemoryStore()
			require.NoError(t, slots.Set(local.DefaultKey, []byte(contents)))

			todos, err := local.New(slots).GetTodos(context.Background())
			require.NoError(t, err)
			assert.Len(t, todos, 3)
			assert.Len(t, stored(t, slots), 3)
		})
	}
}

func TestGetTodos_NoSeeds(t *testing.T) {
	slots := kv.NewMemoryStore()
	store := local.New(slots, local.WithSeeds(nil))

	todos, err := store.GetTodos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
	assert.NotNil(t, todos)
}

func TestGetTodos_EmptiedListWithoutSeedsIsQuiet(t *testing.T) {
	var logs bytes.Buffer
	slots := kv.NewMemoryStore()
	store := local.New(slots,
		local.WithSeeds(nil),
		local.WithLogger(logging.New(&logs, "warn", "text")),
	)
	ctx := context.Background()

	todo, err := store.AddTodo(ctx, "only one")
	require.NoError(t, err)
	require.NoError(t, store.DeleteTodo(ctx, todo.ID))
	assert.Empty(t, stored(t, slots))

	for i := 0; i < 2; i++ {
		todos, err := store.GetTodos(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	}
	assert.Empty(t, logs.String(), "an emptied list is not corrupt")
}

func TestGetTodos_EmptiedListReseeds(t *testing.T) {
	var logs bytes.Buffer
	slots := kv.NewMemoryStore()
	require.NoError(t, slots.Set(local.DefaultKey, []byte(`[]`)))
	store := local.New(slots, local.WithLogger(logging.New(&logs, "warn", "text")))

	todos, err := store.GetTodos(context.Background())
	require.NoError(t, err)
	assert.Len(t, todos, len(local.DefaultSeeds))
	assert.Empty(t, logs.String())
}

func TestAddTodo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := local.New(kv.NewMemoryStore())

	before, err := store.GetTodos(ctx)
	require.NoError(t, err)

	created, err := store.AddTodo(ctx, "  buy milk ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Text)
	assert.False(t, created.Completed)
	assert.NotEmpty(t, created.ID)
	for _, t0 := range before {
		assert.NotEqual(t, t0.ID, created.ID)
	}

	after, err := store.GetTodos(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, created, after[len(after)-1])
}

func TestAddTodo_IDFormat(t *testing.T) {
	store := local.New(kv.NewMemoryStore(), local.WithSeeds(nil))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		todo, err := store.AddTodo(ctx, "item")
		require.NoError(t, err)
		prefix, suffix, ok := strings.Cut(todo.ID, "-")
		require.True(t, ok, "id %q should contain a dash", todo.ID)
		assert.NotEmpty(t, prefix)
		assert.Len(t, suffix, 5)
		assert.False(t, seen[todo.ID], "duplicate id %q", todo.ID)
		seen[todo.ID] = true
	}
}

func TestAddTodo_RegeneratesCollidingID(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	next := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	slots := kv.NewMemoryStore()
	put(t, slots, []service.Todo{{ID: "dup", Text: "existing"}})

	todo, err := local.New(slots, local.WithIDFunc(next)).AddTodo(context.Background(), "new")
	require.NoError(t, err)
	assert.Equal(t, "fresh", todo.ID)
}

func TestAddTodo_Validation(t *testing.T) {
	slots := kv.NewMemoryStore()
	store := local.New(slots)
	ctx := context.Background()

	_, err := store.AddTodo(ctx, "   ")
	assert.ErrorIs(t, err, service.ErrEmptyText)

	_, err = store.AddTodo(ctx, strings.Repeat("x", service.MaxTextLength+1))
	assert.ErrorIs(t, err, service.ErrTextTooLong)

	var serr *service.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "add", serr.Op)

	// Validation failures never touch the slot.
	_, ok, _ := slots.Get(local.DefaultKey)
	assert.False(t, ok)

	_, err = store.AddTodo(ctx, strings.Repeat("é", service.MaxTextLength))
	assert.NoError(t, err)
}

func TestToggleTodo_Pairing(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemoryStore()
	put(t, slots, []service.Todo{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}})
	store := local.New(slots)

	require.NoError(t, store.ToggleTodo(ctx, "a", true))
	mid, err := store.GetTodos(ctx)
	require.NoError(t, err)
	assert.True(t, mid[0].Completed)
	assert.False(t, mid[1].Completed)

	require.NoError(t, store.ToggleTodo(ctx, "a", false))
	end, err := store.GetTodos(ctx)
	require.NoError(t, err)
	assert.False(t, end[0].Completed)
}

func TestToggleAndDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemoryStore()
	put(t, slots, []service.Todo{{ID: "a", Text: "a"}})
	store := local.New(slots)

	err := store.ToggleTodo(ctx, "zzz", true)
	assert.True(t, errors.Is(err, service.ErrNotFound))

	err = store.DeleteTodo(ctx, "zzz")
	assert.True(t, errors.Is(err, service.ErrNotFound))
	assert.Len(t, stored(t, slots), 1)
}

func TestDeleteTodo(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemoryStore()
	put(t, slots, []service.Todo{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}, {ID: "c", Text: "c"}})
	store := local.New(slots)

	require.NoError(t, store.DeleteTodo(ctx, "b"))
	assert.Equal(t, []service.Todo{{ID: "a", Text: "a"}, {ID: "c", Text: "c"}}, stored(t, slots))
}

func TestClearCompleted(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemoryStore()
	put(t, slots, []service.Todo{
		{ID: "a", Text: "a"},
		{ID: "b", Text: "b", Completed: true},
		{ID: "c", Text: "c", Completed: true},
	})
	store := local.New(slots)

	require.NoError(t, store.ClearCompleted(ctx))

	todos, err := store.GetTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Todo{{ID: "a", Text: "a"}}, todos)
}

func TestFileStoreBackend_Persists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	first := local.New(kv.NewFileStore(dir), local.WithSeeds(nil))
	created, err := first.AddTodo(ctx, "persist me")
	require.NoError(t, err)

	second := local.New(kv.NewFileStore(dir), local.WithSeeds(nil))
	todos, err := second.GetTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Todo{created}, todos)
}

type failingStore struct{ err error }

func (f failingStore) Get(string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingStore) Set(string, []byte) error        { return f.err }

func TestSlotErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	store := local.New(failingStore{err: boom})

	_, err := store.GetTodos(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = store.AddTodo(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
