package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a todo" }
func (c *AddCmd) Usage() string     { return "todos add <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form text
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: todo text required")
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := ctl.Add(ctx, text); err != nil {
		return report(newLogger(cfg, errOut), errOut, err)
	}
	return ok(cfg, out)
}
