package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/backend"
	"todos/internal/backend/local"
	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&ModeCmd{})
}

// ModeCmd implements the mode command.
type ModeCmd struct{}

func (c *ModeCmd) Name() string      { return "mode" }
func (c *ModeCmd) Aliases() []string { return nil }
func (c *ModeCmd) Synopsis() string  { return "Print the active backend" }
func (c *ModeCmd) Usage() string     { return "todos mode" }
func (c *ModeCmd) NeedsStore() bool  { return false }

func (c *ModeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ModeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	switch cfg.Mode {
	case service.ModeRemote:
		fmt.Fprintf(out, "remote %s\n", cfg.APIBase)
	default:
		fmt.Fprintf(out, "local %s\n", backend.Location(cfg, local.DefaultKey))
	}
	return exitcode.Success
}
