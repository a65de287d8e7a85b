package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todos/internal/config"
	"todos/internal/controller"
	"todos/internal/exitcode"
	"todos/internal/logging"
	"todos/internal/service"
)

// newLogger returns the console logger for a command run.
func newLogger(cfg *config.Config, errOut io.Writer) *log.Logger {
	return logging.New(errOut, cfg.LogLevelName(), cfg.LogFormat)
}

// loadController builds a controller for svc and performs the initial load.
// On failure it reports the error and returns a non-zero exit code.
func loadController(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*controller.Controller, int) {
	logger := newLogger(cfg, errOut)
	ctl := controller.New(svc, cfg.Mode, controller.WithLogger(logger))
	if err := ctl.Load(ctx); err != nil {
		return nil, report(logger, errOut, err)
	}
	return ctl, exitcode.Success
}

// report prints err and maps it to an exit code.
func report(logger *log.Logger, errOut io.Writer, err error) int {
	var opErr *controller.OpError
	switch {
	case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrTextTooLong):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &opErr):
		fmt.Fprintf(errOut, "error: %s\n", opErr.Op.Message())
		logger.Debug("cause", "op", opErr.Op, "err", opErr.Err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// ok prints the success acknowledgement unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
