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
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a todo between active and completed" }
func (c *ToggleCmd) Usage() string     { return "todos toggle <n>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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
	if err := ctl.Toggle(ctx, todo.ID); err != nil {
		return report(newLogger(cfg, errOut), errOut, err)
	}
	return ok(cfg, out)
}
