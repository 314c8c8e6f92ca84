package mappings

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ruinedyourlife/netcode/utils"
	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// RenamePackets carries the names of a previously renamed packet set onto a
// freshly parsed one. Constant matching runs first, then strict structure
// matching on what is left. Fresh schemas are renamed in place and the
// matches are returned.
func RenamePackets(fresh, known []*netcode.PacketSchema, logger *slog.Logger) []utils.PacketMatch {
	progress := &utils.MatchingProgress{}
	progress.Init(len(fresh))

	constantMatches := FindConstantBasedMatches(fresh, known, progress, logger)
	structureMatches, passes := FindStrictStructureBasedMatches(fresh, known, constantMatches, progress, logger)

	matches := append(constantMatches, structureMatches...)
	ApplyMatches(fresh, known, matches, logger)

	logger.Info("rename summary",
		"fresh", strconv.Itoa(len(fresh)),
		"constant_matches", strconv.Itoa(len(constantMatches)),
		"structure_matches", strconv.Itoa(len(structureMatches)),
		"passes", strconv.Itoa(passes),
		"progress", fmt.Sprintf("%.1f%%", progress.GetProgress()),
	)
	return matches
}

// ApplyMatches renames every matched fresh packet after its known packet.
// Field names are copied by position only when both field lists have the
// same types in the same order.
func ApplyMatches(fresh, known []*netcode.PacketSchema, matches []utils.PacketMatch, logger *slog.Logger) {
	freshByName := make(map[string]*netcode.PacketSchema, len(fresh))
	for _, f := range fresh {
		freshByName[f.InitialName] = f
	}
	knownByName := make(map[string]*netcode.PacketSchema, len(known))
	for _, k := range known {
		knownByName[k.Name] = k
	}

	for _, m := range matches {
		f, k := freshByName[m.FreshName], knownByName[m.KnownName]
		if f == nil || k == nil {
			logger.Warn("match refers to an unknown packet", "fresh", m.FreshName, "known", m.KnownName)
			continue
		}

		var fields map[string]string
		if utils.SameFieldTypes(f, k) {
			fields = make(map[string]string, len(f.Fields))
			for i, field := range f.Fields {
				fields[field.InitialName] = k.Fields[i].Name
			}
		}
		f.Rename(k.Name, fields)

		logger.Debug("renamed packet",
			"initial_name", f.InitialName,
			"name", f.Name,
			"fields", len(fields),
		)
	}
}
