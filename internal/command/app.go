// Package command builds the validator-load command line application.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/config"
	"github.com/thep2p/validator-load/internal/elections"
	"github.com/thep2p/validator-load/internal/metrics"
	"github.com/thep2p/validator-load/internal/network"
	"github.com/thep2p/validator-load/internal/output"
	"github.com/thep2p/validator-load/internal/report"
	"github.com/thep2p/validator-load/internal/utils"
	"github.com/urfave/cli/v2"
)

const (
	flagOutput          = "output"
	flagGetTime         = "get-time"
	flagConfig          = "config"
	flagVerbosity       = "verbosity"
	flagElectionsURL    = "elections-url"
	flagNetworkBackend  = "network-backend"
	flagNetworkEndpoint = "network-endpoint"
	flagNetworkFile     = "network-file"
	flagMetricsFile     = "metrics-file"
)

// Env carries the process environment the application runs against.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Clock  clock.Clock
}

// Main runs the application with args and returns the process exit code.
//
// Any failure is logged once to Stderr and yields exit code 1.
func Main(ctx context.Context, args []string, env Env) int {
	logger := NewLogger(env.Stderr, zerolog.InfoLevel)
	if err := NewApp(env, &logger).RunContext(ctx, args); err != nil {
		logger.Error().Err(err).Msg("validator load failed")
		return 1
	}
	return 0
}

// NewApp returns the cli.App. Once the configuration is known, *logger is replaced by one at
// the configured level so the caller reports failures consistently.
func NewApp(env Env, logger *zerolog.Logger) *cli.App {
	return &cli.App{
		Name:      "validator-load",
		Usage:     "Fetches validators load statistics from blockchain, maps it to ADNL and returns JSON",
		ArgsUsage: "PERIOD",
		Description: "PERIOD is the maximum lookback in seconds. It is cut to the time elapsed since the\n" +
			"start of the active validation cycle.",
		Writer:          env.Stdout,
		ErrWriter:       env.Stderr,
		HideHelpCommand: true,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return fmt.Errorf("incorrect usage: %w", err)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "Write output to indicated file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    flagGetTime,
				Aliases: []string{"t"},
				Usage:   "Print only the elapsed time in milliseconds instead of the result",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{"VALIDATOR_LOAD_CONFIG"},
			},
			&cli.StringFlag{
				Name:    flagVerbosity,
				Aliases: []string{"v"},
				Usage:   "Log level: trace, debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:    flagElectionsURL,
				Usage:   "Base URL of the elections API",
				EnvVars: []string{"VALIDATOR_LOAD_ELECTIONS_URL"},
			},
			&cli.StringFlag{
				Name:  flagNetworkBackend,
				Usage: fmt.Sprintf("Validator load backend (%s or %s)", config.BackendRPC, config.BackendFile),
			},
			&cli.StringFlag{
				Name:  flagNetworkEndpoint,
				Usage: "JSON-RPC endpoint of the lite-server bridge",
			},
			&cli.StringFlag{
				Name:  flagNetworkFile,
				Usage: "Captured load result replayed by the file backend",
			},
			&cli.StringFlag{
				Name:  flagMetricsFile,
				Usage: "Write Prometheus textfile metrics of the run to this path",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, env, logger)
		},
	}
}

// run executes one collection. All errors are CRITICAL and end the process with exit code 1.
func run(c *cli.Context, env Env, logger *zerolog.Logger) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one PERIOD argument, got %d", c.NArg())
	}
	period, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || period < 0 {
		return fmt.Errorf("PERIOD must be a non-negative number of seconds, got %q", c.Args().First())
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	*logger = NewLogger(env.Stderr, cfg.LogLevel())
	log := logger.With().Str("component", "main").Logger()

	src, err := network.DefaultRegistry.Open(c.Context, *logger, cfg.Network)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close load source")
		}
	}()

	electionsClient := elections.NewClient(*logger, nil, cfg.Elections.URL, cfg.Elections.Limit)
	reporter := report.NewReporter(*logger, env.Clock, electionsClient, src)

	writeMetrics := func(res *report.Result) error {
		path := c.String(flagMetricsFile)
		if path == "" {
			return nil
		}
		rep := metrics.NewReport()
		rep.Observe(len(res.Records), res.Correlated, res.Period, res.Cycle.StartTime(), res.Cycle.EndTime(), res.Elapsed, res.Finished)
		return rep.WriteTextfile(path)
	}

	if c.Bool(flagGetTime) {
		res, err := reporter.Collect(c.Context, period)
		if err != nil {
			return err
		}
		if err := writeMetrics(res); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(env.Stdout, strconv.FormatFloat(utils.Milliseconds(res.Elapsed), 'f', 3, 64)); err != nil {
			return fmt.Errorf("%w: %w", output.ErrOutputWrite, err)
		}
		return nil
	}

	sink := output.NewWriterSink(env.Stdout)
	if path := c.String(flagOutput); path != "" {
		sink = output.NewFileSink(path)
	}
	log.Debug().Str("destination", sink.Destination()).Msg("writing result")
	if _, err := reporter.Run(c.Context, period, sink, writeMetrics); err != nil {
		return err
	}
	return nil
}

// loadConfig reads the config file, applies flag overrides, and validates the result.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{flagVerbosity, &cfg.Log.Level},
		{flagElectionsURL, &cfg.Elections.URL},
		{flagNetworkBackend, &cfg.Network.Backend},
		{flagNetworkEndpoint, &cfg.Network.Endpoint},
		{flagNetworkFile, &cfg.Network.File},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewLogger returns a console logger on w. Colors are used only when w is a terminal.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}
