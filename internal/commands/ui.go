package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/controller"
	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive todo list" }
func (c *UICmd) Usage() string     { return "todos ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctl := controller.New(svc, cfg.Mode, controller.WithLogger(newLogger(cfg, errOut)))
	if err := ui.Run(ctx, ctl); err != nil {
		fmt.Fprintf(errOut, "error: ui: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
