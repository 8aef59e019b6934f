package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"migration-verifier/core/config"
	"migration-verifier/core/logger"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// verifyCmd runs one reconciliation between the configured stores.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare source and target stores and report discrepancies",
	Long: `Enumerates the record types of both stores, pages through every source
type on both sides and reports identifiers missing in or extra in the target.

The report directory is cleared and rewritten on every run.

Exit status:
  0  every type matched
  1  discrepancies or incomplete data were found
  2  the run could not be performed (configuration, store unreachable)
  3  the run was interrupted

Examples:
  # Compare two HTTP stores
  migration-verifier verify --source http://old:8080 --target http://new:8080

  # Smaller pages, more parallelism, JSON summary on stdout
  migration-verifier verify --page-size 200 --workers 8 --json`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	addVerifyFlags(verifyCmd.Flags())
	RootCmd.AddCommand(verifyCmd)
}

// addVerifyFlags defines the verify flags on f.
func addVerifyFlags(f *pflag.FlagSet) {
	f.String("source", "", "Base URL of the source store (overrides source.base_url)")
	f.String("target", "", "Base URL of the target store (overrides target.base_url)")
	f.Int("page-size", 0, "Records requested per page (overrides reconcile.page_size)")
	f.Int("max-pages", 0, "Page bound per type and store (overrides reconcile.max_pages)")
	f.Int("workers", 0, "Types processed concurrently (overrides reconcile.workers)")
	f.String("out", "", "Report directory for the local sink (overrides report.dir)")
	f.String("sink", "", "Report sink: local or s3 (overrides report.sink)")
	f.Bool("json", false, "Print the run summary as JSON to stdout")
	f.Bool("no-snapshots", false, "Do not write raw identifier snapshots")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to load config: %w", err)}
	}
	applyVerifyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("invalid configuration: %w", err)}
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to initialize logger: %w", err)}
	}
	defer logg.Sync()

	source, target, err := openStores(cfg)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}
	engine, err := buildEngine(cfg, source, target, logg)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}

	summary, runErr := engine.Run(ctx)
	if summary != nil {
		printRunReport(logg, summary)
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to encode summary: %w", err)}
			}
		}
	}

	code := exitCode(summary, runErr)
	if code == ExitSuccess {
		return nil
	}
	return &ExitError{Code: code, Err: runErr}
}

// applyVerifyFlags overrides configuration with the flags set on the command line.
func applyVerifyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("source") {
		cfg.Source.BaseURL, _ = flags.GetString("source")
	}
	if flags.Changed("target") {
		cfg.Target.BaseURL, _ = flags.GetString("target")
	}
	if flags.Changed("page-size") {
		cfg.Reconcile.PageSize, _ = flags.GetInt("page-size")
	}
	if flags.Changed("max-pages") {
		cfg.Reconcile.MaxPages, _ = flags.GetInt("max-pages")
	}
	if flags.Changed("workers") {
		cfg.Reconcile.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("out") {
		cfg.Report.Dir, _ = flags.GetString("out")
	}
	if flags.Changed("sink") {
		cfg.Report.Sink, _ = flags.GetString("sink")
	}
	if skip, _ := flags.GetBool("no-snapshots"); skip {
		cfg.Report.WriteSnapshots = false
	}
}
