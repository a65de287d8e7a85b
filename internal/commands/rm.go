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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a todo" }
func (c *RmCmd) Usage() string     { return "todos rm <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	n, err := ParseRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	todo, err := resolveRef(ctl.Todos(), n)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := ctl.Delete(ctx, todo.ID); err != nil {
		return report(newLogger(cfg, errOut), errOut, err)
	}
	return ok(cfg, out)
}
