package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ruinedyourlife/netcode/utils"
)

func newPrintCmd() *cobra.Command {
	var (
		format string
		trace  bool
	)

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Parse one packet class and print its schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			applyTrace(cmd, cfg, trace)

			o := utils.ParseSource(args[0], cfg, logger)
			switch {
			case o.Err != nil:
				return o.Err
			case o.Skipped:
				logger.Info("skipped unit", "source", o.Source)
				return nil
			}

			switch format {
			case "pretty":
				utils.PrintSchema(os.Stdout, o.Schema)
			case utils.FormatJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(o.Schema); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case utils.FormatYAML:
				enc := yaml.NewEncoder(os.Stdout)
				defer enc.Close()
				if err := enc.Encode(o.Schema); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected pretty, json, or yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "output format (pretty, json, yaml)")
	cmd.Flags().BoolVar(&trace, "trace", false, "emit parser trace records at debug level")
	return cmd
}
