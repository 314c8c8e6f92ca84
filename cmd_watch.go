package main

import (
	"github.com/spf13/cobra"

	"github.com/ruinedyourlife/netcode/utils"
)

func newWatchCmd() *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "watch [source-dir]",
		Short: "Re-parse packet classes as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.SourceDir = args[0]
			}
			applyTrace(cmd, cfg, trace)

			return utils.Watch(cmd.Context(), cfg, logger, func(o utils.Outcome) {
				if o.Schema != nil {
					logger.Info("parsed packet",
						"source", o.Source,
						"name", o.Schema.Name,
						"id", o.Schema.ID,
						"fields", len(o.Schema.Fields),
						"steps", len(o.Schema.WriteBody),
					)
					return
				}
				utils.LogOutcome(logger, o)
			})
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "emit parser trace records at debug level")
	return cmd
}
