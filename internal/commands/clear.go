package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct{}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all completed todos" }
func (c *ClearCmd) Usage() string     { return "todos clear" }
func (c *ClearCmd) NeedsStore() bool  { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	if !ctl.HasCompleted() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "nothing to clear")
		}
		return exitcode.Success
	}
	if err := ctl.ClearCompleted(ctx); err != nil {
		code := report(newLogger(cfg, errOut), errOut, err)
		if cfg.Mode == service.ModeRemote {
			fmt.Fprintln(errOut, "some todos may already be deleted (run: todos list)")
		}
		return code
	}
	return ok(cfg, out)
}
