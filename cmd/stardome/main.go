// Command stardome serves Earth orientation for the planetarium renderer and
// offers a few one-shot conversions on the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlexApps99/stardome/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "stardome",
		Short:        "Earth orientation service for planetarium rendering",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (yaml, toml or json); STARDOME_* variables override it")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "json", "json or text")

	cmd.AddCommand(
		serveCmd(g),
		convertCmd(),
		orientCmd(g),
		temeCmd(g),
		nowCmd(),
	)
	return cmd
}

// load reads the configuration and builds the logger. Config warnings are
// logged at the configured level once it is known.
func (g *globals) load(out io.Writer) (config.Config, *slog.Logger, error) {
	bootstrap, err := g.logger(out, slog.LevelInfo)
	if err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Load(g.configPath, bootstrap)
	if err != nil {
		return cfg, bootstrap, err
	}
	if g.logLevel != "" {
		if cfg.LogLevel, err = config.ParseLevel(g.logLevel); err != nil {
			return cfg, bootstrap, err
		}
	}

	logger, err := g.logger(out, cfg.LogLevel)
	return cfg, logger, err
}

func (g *globals) logger(out io.Writer, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch g.logFormat {
	case "json", "":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", g.logFormat)
	}
}
