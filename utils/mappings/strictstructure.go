package mappings

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ruinedyourlife/netcode/utils"
	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// FindStrictStructureBasedMatches pairs the packets left over by earlier
// passes whose structure matches perfectly. Matches are peeled off one pass
// at a time while some fresh packet has exactly one candidate left.
func FindStrictStructureBasedMatches(
	fresh, known []*netcode.PacketSchema,
	priorMatches []utils.PacketMatch,
	progress *utils.MatchingProgress,
	logger *slog.Logger,
) ([]utils.PacketMatch, int) {
	var matches []utils.PacketMatch

	matchedFresh := make(map[string]bool)
	matchedKnown := make(map[string]bool)
	for _, m := range priorMatches {
		matchedFresh[m.FreshName] = true
		matchedKnown[m.KnownName] = true
	}

	var unmatchedFresh, unmatchedKnown []*netcode.PacketSchema
	for _, f := range fresh {
		if !matchedFresh[f.InitialName] {
			unmatchedFresh = append(unmatchedFresh, f)
		}
	}
	for _, k := range known {
		if !matchedKnown[k.Name] {
			unmatchedKnown = append(unmatchedKnown, k)
		}
	}

	startingUnmatched := len(unmatchedFresh)

	somethingChanged := true
	passes := 0
	for somethingChanged {
		passes++
		somethingChanged = false

		for _, f := range unmatchedFresh {
			if matchedFresh[f.InitialName] {
				continue
			}

			var candidates []*netcode.PacketSchema
			for _, k := range unmatchedKnown {
				if !matchedKnown[k.Name] && isPerfectStructureMatch(f, k) {
					candidates = append(candidates, k)
				}
			}
			if len(candidates) != 1 {
				continue
			}

			k := candidates[0]
			matchedFresh[f.InitialName] = true
			matchedKnown[k.Name] = true
			_, confidence := compareStructures(f, k)
			matches = append(matches, utils.PacketMatch{
				FreshName:    f.InitialName,
				KnownName:    k.Name,
				ID:           f.ID,
				Method:       utils.MatchByStructure,
				MatchPercent: confidence,
			})
			logger.Debug("found structure-based match",
				"fresh", f.InitialName,
				"known", k.Name,
				"confidence", confidence,
			)
			somethingChanged = true
		}

		if somethingChanged {
			unmatchedFresh = filterUnmatched(unmatchedFresh, matchedFresh, func(p *netcode.PacketSchema) string { return p.InitialName })
			unmatchedKnown = filterUnmatched(unmatchedKnown, matchedKnown, func(p *netcode.PacketSchema) string { return p.Name })
		}
	}

	progress.AddMatches(len(matches))

	logger.Info("strict structure matching summary",
		"initial_unmatched_fresh", startingUnmatched,
		"strict_matches_found", len(matches),
		"passes_needed", passes,
		"matching_progress", fmt.Sprintf("%.1f%%", progress.GetProgress()),
	)

	return matches, passes
}

func filterUnmatched(packets []*netcode.PacketSchema, matched map[string]bool, key func(*netcode.PacketSchema) string) []*netcode.PacketSchema {
	var out []*netcode.PacketSchema
	for _, p := range packets {
		if !matched[key(p)] {
			out = append(out, p)
		}
	}
	return out
}

// compareStructures scores how alike two packets are. Packets with a
// different base never match.
func compareStructures(fresh, known *netcode.PacketSchema) (bool, float64) {
	if !utils.SameBase(fresh, known) {
		return false, 0
	}
	if len(fresh.WriteBody) == 0 && len(fresh.Fields) == 0 {
		return false, 0
	}

	matchScore := 0.0
	totalChecks := 0.0

	if len(fresh.Fields) > 0 || len(known.Fields) > 0 {
		fieldCountDiff := math.Abs(float64(len(fresh.Fields) - len(known.Fields)))
		matchScore += 1.0 - fieldCountDiff/float64(max(len(fresh.Fields), len(known.Fields)))
		totalChecks++

		if utils.SameFieldTypes(fresh, known) {
			matchScore++
		}
		totalChecks++
	}

	if utils.SameWriteShape(fresh, known) {
		matchScore++
	}
	totalChecks++

	confidence := matchScore / totalChecks * 100
	return confidence >= 80, confidence
}

func isPerfectStructureMatch(fresh, known *netcode.PacketSchema) bool {
	isMatch, confidence := compareStructures(fresh, known)
	return isMatch && confidence == 100
}
