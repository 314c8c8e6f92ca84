package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruinedyourlife/netcode/utils"
	"github.com/ruinedyourlife/netcode/utils/mappings"
)

func newRenameCmd() *cobra.Command {
	var (
		known  string
		out    string
		report string
	)

	cmd := &cobra.Command{
		Use:   "rename <fresh-schemas>",
		Short: "Carry names from a renamed schema set onto a freshly parsed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			fresh, err := utils.ReadSchemas(args[0])
			if err != nil {
				return fmt.Errorf("loading fresh schemas: %w", err)
			}
			knownSchemas, err := utils.ReadSchemas(known)
			if err != nil {
				return fmt.Errorf("loading known schemas: %w", err)
			}

			matches := mappings.RenamePackets(fresh, knownSchemas, logger)

			if out == "" {
				out = args[0]
			}
			if err := utils.WriteSchemas(out, utils.FormatForPath(out, utils.FormatJSON), fresh); err != nil {
				return fmt.Errorf("writing schemas: %w", err)
			}
			if report != "" {
				if err := utils.GenerateMatchReport(matches, report); err != nil {
					logger.Error("failed to generate match report", "error", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&known, "known", "k", "", "previously renamed schemas")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (defaults to overwriting the fresh schemas)")
	cmd.Flags().StringVar(&report, "report", "reports/rename_matches.txt", "match report file")
	_ = cmd.MarkFlagRequired("known")
	return cmd
}
