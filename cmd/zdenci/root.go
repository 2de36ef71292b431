package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/config"
	"zdenci/exporter/pkg/telemetry/logging"
)

// DefaultConfigFile is read when --config is not given and the file exists.
const DefaultConfigFile = "zdenci.yaml"

// globals holds state shared by every subcommand once the root command has
// loaded configuration.
type globals struct {
	cfgFile  string
	logLevel string
	verbose  bool

	// cfgPath is the file the configuration was loaded from, or "" when
	// running on defaults and environment only.
	cfgPath  string
	levelVar *slog.LevelVar

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{levelVar: new(slog.LevelVar)}

	cmd := &cobra.Command{
		Use:   "zdenci",
		Short: "Filtered exports of the zdenci water-well registry",
		Long: `zdenci exports the water-well registry as CSV or JSON, honouring the same
search and column filters the registry grid offers.

Exports run locally over the loaded records (mode "local") or are delegated
to the server's export endpoint (mode "remote"). Full unfiltered snapshots
can be generated on a schedule and served over HTTP.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&g.cfgFile, "config", "c", "", "config file path (default "+DefaultConfigFile+" when present)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")

	cmd.AddCommand(
		newDownloadCmd(g),
		newSnapshotCmd(g),
		newServeCmd(g),
		newHistoryCmd(g),
		newVersionCmd(),
		newCompletionCmd(cmd),
	)
	return cmd
}

// load reads configuration and installs the default logger.
func (g *globals) load(cmd *cobra.Command) error {
	path := g.cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cli.NewConfigError("config", err.Error())
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return cli.NewConfigError("config", err.Error())
	}

	switch {
	case g.logLevel != "":
		cfg.Telemetry.Logging.Level = g.logLevel
	case g.verbose:
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
		Writer:        cmd.ErrOrStderr(),
		LevelVar:      g.levelVar,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	config.SetConfig(cfg)
	g.cfgPath = path
	g.cfg = cfg
	g.logger = logger
	return nil
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

// Execute runs the root command and exits.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
