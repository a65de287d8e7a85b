package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"todos/internal/backend"
	"todos/internal/backend/local"
	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/server"
	"todos/internal/service"
)

const (
	// ServerKey is the slot holding the server's todos, separate from the
	// local-mode slot in the same data directory.
	ServerKey = "server"

	shutdownTimeout = 5 * time.Second
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr  string
	token string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the todos HTTP API" }
func (c *ServeCmd) Usage() string     { return "todos serve [--addr <host:port>] [--token <token>]" }
func (c *ServeCmd) NeedsStore() bool  { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.token, "token", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Listen
	}
	token := c.token
	if token == "" {
		token = cfg.APIToken
	}
	logger := newLogger(cfg, errOut)

	slots, err := backend.OpenSlots(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	if closer, ok := slots.(io.Closer); ok {
		defer closer.Close()
	}

	store := local.New(slots,
		local.WithKey(ServerKey),
		local.WithSeeds(nil),
		local.WithIDFunc(uuid.NewString),
		local.WithLogger(logger),
	)
	srv := &http.Server{
		Handler:           server.New(store, server.WithToken(token), server.WithLogger(logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: listen: %v\n", err)
		return exitcode.ConfigError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: serve: %v\n", err)
			return exitcode.BackendError
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(errOut, "error: shutdown: %v\n", err)
			return exitcode.BackendError
		}
	}
	return exitcode.Success
}
