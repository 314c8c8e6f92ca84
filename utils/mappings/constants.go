package mappings

import (
	"fmt"
	"log/slog"

	"github.com/ruinedyourlife/netcode/utils"
	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// FindConstantBasedMatches pairs fresh packets with known packets declaring
// the same constants. A fresh packet matches only when exactly one unused
// known packet carries its constants.
func FindConstantBasedMatches(
	fresh, known []*netcode.PacketSchema,
	progress *utils.MatchingProgress,
	logger *slog.Logger,
) []utils.PacketMatch {
	var matches []utils.PacketMatch
	var totalWithConstants int
	matchedKnown := make(map[*netcode.PacketSchema]bool)
	matchedFresh := make(map[*netcode.PacketSchema]bool)

	for _, f := range fresh {
		if len(f.Constants) == 0 {
			continue
		}
		totalWithConstants++

		var candidates []*netcode.PacketSchema
		for _, k := range known {
			if !matchedKnown[k] && utils.CompareConstants(f, k) {
				candidates = append(candidates, k)
			}
		}
		if len(candidates) != 1 {
			if len(candidates) > 1 {
				logger.Debug("ambiguous constant match",
					"fresh", f.InitialName,
					"candidates", len(candidates),
				)
			}
			continue
		}

		k := candidates[0]
		matchedKnown[k] = true
		matchedFresh[f] = true
		match := utils.PacketMatch{
			FreshName:    f.InitialName,
			KnownName:    k.Name,
			ID:           f.ID,
			Method:       utils.MatchByConstants,
			MatchPercent: constantConfidence(f, k),
		}
		matches = append(matches, match)

		logger.Debug("found constant-based match",
			"fresh", f.InitialName,
			"known", k.Name,
		)
		for _, c := range f.Constants {
			logger.Debug("matching constant",
				"name", c.Name,
				"value", c.Value,
			)
		}
	}

	progress.AddMatches(len(matches))

	logger.Info("constant matching summary",
		"fresh_with_constants", totalWithConstants,
		"constant_matches_found", len(matches),
		"matching_progress", fmt.Sprintf("%.1f%%", progress.GetProgress()),
	)

	if len(matches) < totalWithConstants {
		for _, f := range fresh {
			if len(f.Constants) > 0 && !matchedFresh[f] {
				logger.Debug("unmatched packet",
					"name", f.InitialName,
					"constants", formatConstants(f.Constants),
				)
			}
		}
	}

	return matches
}

// Constants alone name the packet; field names carry over only when the
// field lists also line up.
func constantConfidence(fresh, known *netcode.PacketSchema) float64 {
	if utils.SameFieldTypes(fresh, known) {
		return 100
	}
	return 50
}

func formatConstants(constants []netcode.Constant) []string {
	out := make([]string, len(constants))
	for i, c := range constants {
		out[i] = fmt.Sprintf("%s=%d", c.Name, c.Value)
	}
	return out
}
