package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gotitanic/adapters/tabular"
	"gotitanic/app"
	"gotitanic/internal"
	"gotitanic/internal/config"
	"gotitanic/internal/errors"
)

type options struct {
	configFile string
	dataDir    string
	mode       string
	maxIter    int
	logLevel   string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "titanic",
		Short: "Check, summarize, train and predict on the Kaggle Titanic CSV files",
		Long: `Runs one mode against a directory holding train.csv, test.csv and
optionally gender_submission.csv. The environment check runs before every
mode and a missing required file exits with status 1.

Modes:
  check    verify the input files exist
  summary  print shape and descriptive statistics of train.csv
  train    fit the model and print resubstitution accuracy
  predict  predict test.csv, training first, and compare with the baseline if present
  all      summary, train, then predict

Example: titanic --data_dir ./data --mode all`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, out, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Optional YAML configuration file")
	cmd.Flags().StringVar(&opts.dataDir, "data_dir", config.DefaultDataDir, "Directory containing train.csv and test.csv")
	cmd.Flags().StringVar(&opts.mode, "mode", config.DefaultMode, "Mode: "+strings.Join(config.Modes, "|"))
	cmd.Flags().IntVar(&opts.maxIter, "max_iter", config.DefaultMaxIter, "Maximum solver iterations")
	cmd.Flags().StringVar(&opts.logLevel, "log_level", config.DefaultLogLevel, "Log level: ERROR|WARN|INFO|DEBUG|TRACE")

	return cmd
}

func run(cmd *cobra.Command, out io.Writer, opts options) error {
	cfg, err := config.Load(opts.configFile, ".env")
	if err != nil {
		return report(internal.DefaultLogger, err)
	}
	applyFlags(cmd, cfg, opts)

	level, ok := internal.ParseLogLevel(cfg.Run.LogLevel)
	if !ok {
		return report(internal.DefaultLogger, errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", cfg.Run.LogLevel)))
	}
	logger := internal.NewLogger(level).WithField("run_id", uuid.NewString())

	if err := cfg.Validate(); err != nil {
		return report(logger, err)
	}

	runner := app.NewRunner(cfg, tabular.NewDataReader(logger), out, logger)
	if err := runner.Run(cfg.Run.Mode); err != nil {
		return report(logger, err)
	}
	logger.Debug("[Main] mode %s completed", cfg.Run.Mode)
	return nil
}

// applyFlags lets explicitly set flags win over file and environment values
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	flags := cmd.Flags()
	if flags.Changed("data_dir") {
		cfg.Data.Dir = opts.dataDir
	}
	if flags.Changed("mode") {
		cfg.Run.Mode = opts.mode
	}
	if flags.Changed("max_iter") {
		cfg.Model.MaxIter = opts.maxIter
	}
	if flags.Changed("log_level") {
		cfg.Run.LogLevel = opts.logLevel
	}
}

// report logs err once; the stack trace is only printed at DEBUG
func report(logger *internal.Logger, err error) error {
	if logger.GetLevel() >= internal.LogLevelDebug {
		logger.Error("[Main] %s: %+v", errors.GetCode(err), err)
	} else {
		logger.Error("[Main] %v", err)
	}
	return err
}
