package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/output"
	"todos/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todos` (no args) and `todos list --filter <f>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(name string) {
	c.filter = name
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List todos" }
func (c *ListCmd) Usage() string     { return "todos list [--filter all|active|completed]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "all", "")
	fs.StringVar(&c.filter, "f", "all", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	filter, err := service.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	ctl.SetFilter(filter)
	st := ctl.Snapshot()

	if st.Empty() {
		if !cfg.Quiet {
			output.FormatEmpty(out)
		}
	} else {
		// Numbers are positions in the full list so toggle/rm can use them
		// regardless of the filter.
		for i, todo := range st.Todos {
			if filter.Match(todo) {
				output.FormatTodo(out, i+1, todo)
			}
		}
	}

	output.FormatRemaining(out, st.Remaining)
	return exitcode.Success
}
