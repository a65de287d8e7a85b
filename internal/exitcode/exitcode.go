// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, out-of-range number, bad filter).
	UserError = 1

	// ConfigError indicates an unreadable config file or unusable backend settings.
	ConfigError = 2

	// BackendError indicates a storage/API/network error.
	BackendError = 3
)
