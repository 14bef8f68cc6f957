// Package main provides the intcodec command line tool: it encodes and
// decodes integer lists with the intcodec codecs and compares their
// compression on real data.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Akron/intcodec-go/internal/config"
)

// Build information, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "intcodec",
		Short: "Integer list compression codecs",
		Long: `intcodec encodes integer lists with frame-of-reference and
permutation based codecs and compares them on real data.

Commands:
  codecs    List the available codecs
  bench     Compare all configured codecs on a list of integers
  encode    Encode integers into a binary stream
  decode    Decode a binary stream back into integers`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default .intcodec.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(a.newCodecsCommand())
	rootCmd.AddCommand(a.newBenchCommand())
	rootCmd.AddCommand(a.newEncodeCommand())
	rootCmd.AddCommand(a.newDecodeCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// load reads the configuration and builds the logger. Logs go to the
// command's error stream so that encoded output on stdout stays clean.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Logging.Format, config.FormatJSON) {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}

	a.cfg = cfg
	a.logger = slog.New(handler)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "intcodec %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
