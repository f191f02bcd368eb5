package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/orbital-sync/internal/config"
	"github.com/eugenenazirov/orbital-sync/internal/logging"
)

var newLogger = logging.New

func main() {
	os.Exit(run(os.Args[1:], config.OS(), os.Stdout, os.Stderr))
}

func run(args []string, processEnv config.Environment, stdout, stderr io.Writer) int {
	app := kingpin.New("syncconfig", "Resolve and inspect the primary/secondary sync configuration")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(nil)
	envFiles := app.Flag("env-file", "Read additional variables from a .env file (repeatable, process environment wins)").ExistingFiles()

	checkCmd := app.Command("check", "Validate the configuration and log a summary").Default()
	showCmd := app.Command("show", "Print the resolved configuration as YAML with secrets redacted")

	command, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "syncconfig: %v\n", err)
		return 2
	}

	env := processEnv
	if len(*envFiles) > 0 {
		fileEnv, err := config.ReadDotEnv(*envFiles...)
		if err != nil {
			fmt.Fprintf(stderr, "syncconfig: %v\n", err)
			return 1
		}
		env = config.Layered(processEnv, fileEnv)
	}

	logger, err := newLogger(config.NewStore(env).Verbose())
	if err != nil {
		fmt.Fprintf(stderr, "syncconfig: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load(env)
	if err != nil {
		logConfigError(logger, err)
		return 1
	}

	switch command {
	case checkCmd.FullCommand():
		logSummary(logger, cfg)
	case showCmd.FullCommand():
		out, err := config.Render(cfg)
		if err != nil {
			logger.Error("failed to render configuration", zap.Error(err))
			return 1
		}
		if _, err := stdout.Write(out); err != nil {
			logger.Error("failed to write configuration", zap.Error(err))
			return 1
		}
	}
	return 0
}

func logConfigError(logger *zap.Logger, err error) {
	var fatal *config.FatalError
	if errors.As(err, &fatal) {
		logger.Error("invalid configuration",
			zap.String("variable", fatal.Variable),
			zap.Bool("exit", fatal.Exit),
			zap.Error(err),
		)
		return
	}
	logger.Error("failed to load configuration", zap.Error(err))
}

func logSummary(logger *zap.Logger, cfg config.Config) {
	logger.Info("configuration resolved",
		zap.Object("primary", cfg.Primary),
		zap.Objects("secondaries", cfg.Secondaries),
		zap.Int("interval_minutes", cfg.IntervalMinutes),
		zap.Bool("run_once", cfg.RunOnce),
		zap.Bool("update_gravity", cfg.UpdateGravity),
	)
	logger.Debug("sync options", zap.Any("sync", cfg.Sync))
	logger.Debug("notifications",
		zap.Bool("on_success", cfg.NotifyOnSuccess),
		zap.Bool("on_failure", cfg.NotifyOnFailure),
		zap.Bool("smtp", cfg.NotifyViaSMTP),
		zap.Bool("honeybadger", cfg.HoneybadgerAPIKey.IsSet()),
		zap.Bool("sentry", cfg.SentryDSN.IsSet()),
	)
}
