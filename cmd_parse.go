package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruinedyourlife/netcode/utils"
)

func newParseCmd() *cobra.Command {
	var (
		out     string
		format  string
		report  string
		sqlite  string
		workers int
		trace   bool
	)

	cmd := &cobra.Command{
		Use:   "parse [source-dir]",
		Short: "Parse every packet class under a directory and export the schemas",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.SourceDir = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.Output.Path = out
				cfg.Output.Format = utils.FormatForPath(out, cfg.Output.Format)
			}
			if flags.Changed("format") {
				cfg.Output.Format = format
			}
			if flags.Changed("report") {
				cfg.Output.Report = report
			}
			if flags.Changed("sqlite") {
				cfg.Output.SQLite = sqlite
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			applyTrace(cmd, cfg, trace)
			if err := cfg.Validate(); err != nil {
				return err
			}

			batch, err := utils.LoadAndParseSources(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("parsing sources: %w", err)
			}

			if err := utils.WriteSchemas(cfg.Output.Path, cfg.Output.Format, batch.Schemas()); err != nil {
				return fmt.Errorf("writing schemas: %w", err)
			}
			logger.Info("wrote schemas", "path", cfg.Output.Path, "packets", len(batch.Schemas()))

			if cfg.Output.Report != "" {
				if err := utils.GenerateBatchReport(batch, cfg.Output.Report); err != nil {
					logger.Error("failed to generate parse report", "error", err)
				}
			}

			if cfg.Output.SQLite != "" {
				if err := storeBatch(cfg, batch); err != nil {
					return err
				}
				logger.Info("stored run", "path", cfg.Output.SQLite)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "schema output file")
	cmd.Flags().StringVar(&format, "format", "", "output format (json, yaml)")
	cmd.Flags().StringVar(&report, "report", "", "parse report file")
	cmd.Flags().StringVar(&sqlite, "sqlite", "", "also store the run in this SQLite database")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&trace, "trace", false, "emit parser trace records at debug level")
	return cmd
}

func storeBatch(cfg *utils.Config, batch *utils.Batch) error {
	store, err := utils.OpenStore(cfg.Output.SQLite)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.BeginRun(cfg.SourceDir)
	if err != nil {
		return err
	}
	return store.SaveBatch(run, batch)
}
