package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ruinedyourlife/netcode/utils"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "netcode",
		Short:         "Recover packet schemas from decompiled DarkOrbit client classes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newPrintCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newWatchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration, applies the persistent flags and builds the
// logger every command runs with.
func setup(cmd *cobra.Command) (*utils.Config, *slog.Logger, error) {
	cfg, err := utils.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log") {
		cfg.Log.Level = logLevel
	}
	logger, err := utils.InitLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// applyTrace turns every diagnostic switch on when the flag is set.
func applyTrace(cmd *cobra.Command, cfg *utils.Config, trace bool) {
	if cmd.Flags().Changed("trace") && trace {
		cfg.Trace.ParseSteps = true
		cfg.Trace.SourceLines = true
		cfg.Trace.EmittedDefinitions = true
		cfg.Trace.SectionHeaders = true
	}
}
