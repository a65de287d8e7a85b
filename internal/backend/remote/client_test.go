package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todos/internal/backend/remote"
	"todos/internal/server"
	"todos/internal/service"
	"todos/internal/testutil"
)

func newClient(t *testing.T, h http.Handler, opts ...remote.Option) *remote.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := remote.New(ts.URL+"//", opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBase(t *testing.T) {
	for _, base := range []string{"", "   ", "ftp://example.com", "::nope"} {
		_, err := remote.New(base)
		assert.Error(t, err, "base %q", base)
	}

	c, err := remote.New(" https://api.example.com/v1/ ")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", c.Base())
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	c := newClient(t, server.New(svc))

	todos, err := c.GetTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
	assert.NotNil(t, todos)

	created, err := c.AddTodo(ctx, " buy milk ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Text)
	assert.NotEmpty(t, created.ID)

	require.NoError(t, c.ToggleTodo(ctx, created.ID, true))
	todos, err = c.GetTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)

	require.NoError(t, c.DeleteTodo(ctx, created.ID))
	todos, err = c.GetTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestRequestShape(t *testing.T) {
	type seen struct {
		method, path, contentType, accept, body string
	}
	var mu sync.Mutex
	var reqs []seen
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, seen{r.Method, r.URL.EscapedPath(), r.Header.Get("Content-Type"), r.Header.Get("Accept"), string(data)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":"srv-1","text":"x","completed":false}`))
			return
		}
		w.Write([]byte(`not json, ignored`))
	})
	c := newClient(t, h)
	ctx := context.Background()

	_, err := c.AddTodo(ctx, "x")
	require.NoError(t, err)
	require.NoError(t, c.ToggleTodo(ctx, "a b/c", true))
	require.NoError(t, c.DeleteTodo(ctx, "a b/c"))

	require.Len(t, reqs, 3)
	assert.Equal(t, seen{"POST", "/todos", "application/json", "application/json", `{"text":"x"}`}, reqs[0])
	assert.Equal(t, seen{"PATCH", "/todos/a%20b%2Fc", "application/json", "application/json", `{"completed":true}`}, reqs[1])
	assert.Equal(t, seen{"DELETE", "/todos/a%20b%2Fc", "", "application/json", ""}, reqs[2])
}

func TestStatusError(t *testing.T) {
	svc := testutil.NewFakeService()
	c := newClient(t, server.New(svc))

	err := c.ToggleTodo(context.Background(), "missing", true)
	require.Error(t, err)

	var serr *remote.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Code)
	assert.Equal(t, "Not Found", serr.Status)
	assert.Equal(t, "todo not found", serr.Message)
	assert.Equal(t, "API 404: Not Found", serr.Error())
	assert.ErrorIs(t, err, service.ErrNotFound)

	var storageErr *service.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "toggle", storageErr.Op)
	assert.Equal(t, "missing", storageErr.ID)
}

func TestStatusError_PlainBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream sad", http.StatusBadGateway)
	})
	c := newClient(t, h)

	_, err := c.GetTodos(context.Background())
	var serr *remote.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadGateway, serr.Code)
	assert.Equal(t, "API 502: Bad Gateway", serr.Error())
	assert.NotErrorIs(t, err, service.ErrNotFound)
}

func TestParseErrorOnSuccess(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"oops"`))
	})
	_, err := newClient(t, h).GetTodos(context.Background())
	assert.Error(t, err)
}

func TestAddTodo_RejectsMissingID(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"text":"buy milk","completed":false}`))
	})
	todo, err := newClient(t, h).AddTodo(context.Background(), "buy milk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created todo has no id")
	assert.Equal(t, service.Todo{}, todo)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c := newClient(t, h, remote.WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := c.GetTodos(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timed out")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestToken(t *testing.T) {
	svc := testutil.NewFakeService()
	h := server.New(svc, server.WithToken("s3cret"))

	_, err := newClient(t, h).GetTodos(context.Background())
	var serr *remote.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnauthorized, serr.Code)

	_, err = newClient(t, h, remote.WithToken("s3cret")).GetTodos(context.Background())
	assert.NoError(t, err)
}

func TestClearCompleted(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddItem("a", "a", false)
	svc.AddItem("b", "b", true)
	svc.AddItem("c", "c", true)
	c := newClient(t, server.New(svc))

	require.NoError(t, c.ClearCompleted(context.Background()))
	assert.Equal(t, []service.Todo{{ID: "a", Text: "a"}}, svc.Items())
	assert.Equal(t, 2, svc.Calls("DeleteTodo"))
	assert.Equal(t, 0, svc.Calls("ClearCompleted"), "no bulk endpoint is used")
}

func TestClearCompleted_PartialFailure(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	svc.AddItem("a", "a", false)
	svc.AddItem("b", "b", true)
	svc.AddItem("c", "c", true)
	svc.DeleteTodoErr["c"] = errors.New("disk full")
	c := newClient(t, server.New(svc))

	err := c.ClearCompleted(ctx)
	require.Error(t, err)
	var serr *remote.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.Code)

	// b stays deleted, c is still present.
	todos, err := c.GetTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Todo{{ID: "a", Text: "a"}, {ID: "c", Text: "c", Completed: true}}, todos)
}

func TestClearCompleted_DeletesConcurrently(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	gate := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]service.Todo{
				{ID: "x", Completed: true},
				{ID: "y", Completed: true},
				{ID: "z", Completed: true},
			})
			return
		}
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		if inFlight == 3 {
			close(gate)
		}
		mu.Unlock()
		select {
		case <-gate:
		case <-time.After(2 * time.Second):
		}
		mu.Lock()
		inFlight--
		mu.Unlock()
	})

	require.NoError(t, newClient(t, h).ClearCompleted(context.Background()))
	assert.Equal(t, 3, peak)
}
