// Package remote implements service.Service against the todos HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"todos/internal/logging"
	"todos/internal/service"
)

const (
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 10 * time.Second

	todosPath = "/todos"
)

// Client implements service.Service over HTTP.
type Client struct {
	base    string
	http    *http.Client
	token   string
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API at base.
func New(base string, opts ...Option) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, errors.New("api base address is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid api base address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base address: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		base:    base,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.token != "" {
		// Wraps the configured client's transport with an Authorization header.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.http)
		c.http = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.token,
			TokenType:   "Bearer",
		}))
	}
	c.logger = logging.OrDiscard(c.logger)
	return c, nil
}

// Base returns the normalized base address.
func (c *Client) Base() string {
	return c.base
}

// GetTodos implements service.Service.
func (c *Client) GetTodos(ctx context.Context) ([]service.Todo, error) {
	var todos []service.Todo
	if err := c.do(ctx, http.MethodGet, todosPath, nil, &todos); err != nil {
		return nil, service.Wrap("get", "", err)
	}
	if todos == nil {
		todos = []service.Todo{}
	}
	return todos, nil
}

// AddTodo implements service.Service.
func (c *Client) AddTodo(ctx context.Context, text string) (service.Todo, error) {
	text, err := service.NormalizeText(text)
	if err != nil {
		return service.Todo{}, service.Wrap("add", "", err)
	}

	var todo service.Todo
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.do(ctx, http.MethodPost, todosPath, body, &todo); err != nil {
		return service.Todo{}, service.Wrap("add", "", err)
	}
	if todo.ID == "" {
		return service.Todo{}, service.Wrap("add", "", errors.New("decode response: created todo has no id"))
	}
	return todo, nil
}

// ToggleTodo implements service.Service.
func (c *Client) ToggleTodo(ctx context.Context, id string, completed bool) error {
	body := struct {
		Completed bool `json:"completed"`
	}{Completed: completed}
	return service.Wrap("toggle", id, c.do(ctx, http.MethodPatch, todoPath(id), body, nil))
}

// DeleteTodo implements service.Service.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return service.Wrap("delete", id, c.do(ctx, http.MethodDelete, todoPath(id), nil, nil))
}

// ClearCompleted implements service.Service.
// The API has no bulk delete: the list is fetched and every completed todo
// is deleted concurrently. All deletes run to completion; if any failed the
// first failure is returned and the successful deletes stand.
func (c *Client) ClearCompleted(ctx context.Context) error {
	todos, err := c.GetTodos(ctx)
	if err != nil {
		return service.Wrap("clear", "", err)
	}

	var g errgroup.Group
	for _, t := range service.Apply(todos, service.FilterCompleted) {
		id := t.ID
		g.Go(func() error {
			return c.DeleteTodo(ctx, id)
		})
	}
	return service.Wrap("clear", "", g.Wait())
}

func todoPath(id string) string {
	return todosPath + "/" + url.PathEscape(id)
}

// do sends one JSON request. out is decoded from a successful response body
// when non-nil; otherwise the body is discarded.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()
	c.logger.Debug("api request", "method", method, "path", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if err := checkResponse(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// wrapError turns transport failures into short user-facing errors.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
