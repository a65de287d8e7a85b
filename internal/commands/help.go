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
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todos help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}
	fmt.Fprint(out, Help(registry))
	return exitcode.Success
}

// Help renders usage for every command in registry.
func Help(registry *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  todos                     List all todos\n")

	cmds := registry.All()
	width := 0
	for _, cmd := range cmds {
		if n := len(cmd.Usage()); n > width {
			width = n
		}
	}
	for _, cmd := range cmds {
		line := fmt.Sprintf("  %-*s  %s", width, cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(helpFooter)
	return b.String()
}

const helpFooter = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODOS_API_BASE   Remote API base address (selects remote mode)
  TODOS_API_TOKEN  Bearer token for the remote API
  TODOS_DATA_DIR   Directory for local todos
  TODOS_STORE      Local store: file (default) or sqlite
`
