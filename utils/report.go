package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// GenerateBatchReport writes failures grouped by error kind, then skipped
// units and totals.
func GenerateBatchReport(batch *Batch, outputFile string) error {
	var report strings.Builder

	report.WriteString("Packet Parse Report\n")
	report.WriteString("===================\n\n")

	kindFailures := make(map[string][]Outcome)
	var skipped []string
	parsed := 0
	for _, o := range batch.Outcomes {
		switch {
		case o.Err != nil:
			kind := "io error"
			if k := netcode.KindOf(o.Err); k != nil {
				kind = k.Error()
			}
			kindFailures[kind] = append(kindFailures[kind], o)
		case o.Skipped:
			skipped = append(skipped, o.Source)
		default:
			parsed++
		}
	}

	var kinds []string
	for kind := range kindFailures {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	failed := 0
	for _, kind := range kinds {
		outcomes := kindFailures[kind]
		failed += len(outcomes)
		header := fmt.Sprintf("%s (%d)", kind, len(outcomes))
		report.WriteString(fmt.Sprintf("\n%s\n", header))
		report.WriteString(strings.Repeat("-", len(header)) + "\n")
		for _, o := range outcomes {
			var pe *netcode.ParseError
			if errors.As(o.Err, &pe) {
				report.WriteString(fmt.Sprintf("%s: %s\n", filepath.Base(o.Source), pe.Detail))
				if pe.LineNo > 0 {
					report.WriteString(fmt.Sprintf("    line %d: %s\n", pe.LineNo, strings.TrimSpace(pe.Line)))
				}
				continue
			}
			report.WriteString(fmt.Sprintf("%s: %v\n", filepath.Base(o.Source), o.Err))
		}
	}

	if len(skipped) > 0 {
		header := fmt.Sprintf("skipped (%d)", len(skipped))
		report.WriteString(fmt.Sprintf("\n%s\n", header))
		report.WriteString(strings.Repeat("-", len(header)) + "\n")
		for _, s := range skipped {
			report.WriteString(filepath.Base(s) + "\n")
		}
	}

	report.WriteString(fmt.Sprintf("\nTotal: %d sources, %d parsed, %d skipped, %d failed\n",
		len(batch.Outcomes), parsed, len(skipped), failed,
	))

	return writeReport(outputFile, report.String())
}

// GenerateMatchReport writes rename matches grouped by how they were found.
func GenerateMatchReport(matches []PacketMatch, outputFile string) error {
	var report strings.Builder

	report.WriteString("Packet Rename Matches Report\n")
	report.WriteString("============================\n\n")

	methodMatches := make(map[string][]PacketMatch)
	for _, match := range matches {
		methodMatches[match.Method] = append(methodMatches[match.Method], match)
	}

	var methods []string
	for method := range methodMatches {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	for _, method := range methods {
		report.WriteString(fmt.Sprintf("\nMethod: %s\n", method))
		report.WriteString(strings.Repeat("-", len(method)+8) + "\n")

		matches := methodMatches[method]
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].FreshName < matches[j].FreshName
		})

		for _, match := range matches {
			report.WriteString(fmt.Sprintf("%s (id %d) -> %s (confidence: %.0f%%)\n",
				match.FreshName,
				match.ID,
				match.KnownName,
				match.MatchPercent,
			))
		}
	}

	report.WriteString(fmt.Sprintf("\nTotal matches: %d across %d methods\n",
		len(matches),
		len(methodMatches),
	))

	return writeReport(outputFile, report.String())
}

func writeReport(outputFile, content string) error {
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	return os.WriteFile(outputFile, []byte(content), 0644)
}
