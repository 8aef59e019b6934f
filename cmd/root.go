package cmd

import (
	"errors"
	"fmt"
	"os"

	"migration-verifier/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Process exit codes.
const (
	ExitSuccess     = 0
	ExitDiscrepancy = 1
	ExitFatal       = 2
	ExitAborted     = 3
)

// ExitError carries the exit code a command wants the process to end with.
// Err may be nil when the code alone is the result, e.g. discrepancies found.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// configDir is the directory holding config.yaml and .env.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "migration-verifier",
	Short: "Migration reconciliation engine",
	Long: `Migration Verifier compares the records of a source and a target entity
store type by type after a migration and reports what is missing or extra.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}

	code := ExitFatal
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		err = exitErr.Err
	}

	if err != nil {
		// Use the application's standard logger for error reporting
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err), zap.Int("exit_code", code))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(code)
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory holding config.yaml and .env")
}
