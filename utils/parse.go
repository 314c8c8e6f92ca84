package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// Outcome is the result of parsing one source file. Exactly one of Schema,
// Skipped or Err is set.
type Outcome struct {
	Source  string
	Schema  *netcode.PacketSchema
	Skipped bool
	Err     error
}

// Batch holds the outcomes of a run, sorted by source path.
type Batch struct {
	Outcomes []Outcome
	Progress *ParseProgress
}

// Schemas returns the parsed packets in source order.
func (b *Batch) Schemas() []*netcode.PacketSchema {
	var out []*netcode.PacketSchema
	for _, o := range b.Outcomes {
		if o.Schema != nil {
			out = append(out, o.Schema)
		}
	}
	return out
}

// Failures returns the outcomes that carry an error.
func (b *Batch) Failures() []Outcome {
	var out []Outcome
	for _, o := range b.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// ParseSource reads and parses one file. Read errors are reported in the
// outcome like parse errors.
func ParseSource(path string, cfg *Config, logger *slog.Logger) Outcome {
	u, err := netcode.ReadUnitFile(path)
	if err != nil {
		return Outcome{Source: path, Err: fmt.Errorf("reading %s: %w", path, err)}
	}
	schema, err := netcode.Parse(u, netcode.WithLogger(logger), netcode.WithTrace(cfg.Trace))
	switch {
	case err != nil:
		return Outcome{Source: path, Err: err}
	case schema == nil:
		return Outcome{Source: path, Skipped: true}
	}
	return Outcome{Source: path, Schema: schema}
}

// LogOutcome writes the record matching an outcome.
func LogOutcome(logger *slog.Logger, o Outcome) {
	switch {
	case o.Err != nil:
		args := []any{"source", o.Source, "error", o.Err}
		var pe *netcode.ParseError
		if errors.As(o.Err, &pe) && pe.LineNo > 0 {
			args = append(args, "line_no", pe.LineNo, "line", pe.Line)
		}
		logger.Warn("parse failed", args...)
	case o.Skipped:
		logger.Debug("skipped unit", "source", o.Source)
	default:
		logger.Debug("parsed packet",
			"source", o.Source,
			"name", o.Schema.Name,
			"id", o.Schema.ID,
			"fields", len(o.Schema.Fields),
			"steps", len(o.Schema.WriteBody),
		)
	}
}

// LoadAndParseSources parses every source file under cfg.SourceDir using at
// most cfg.Workers goroutines. A unit that fails to parse never stops the
// batch; only discovery errors and cancellation are returned.
func LoadAndParseSources(ctx context.Context, cfg *Config, logger *slog.Logger) (*Batch, error) {
	logger.Info(fmt.Sprintf("loading sources from %s", color.BlueString(cfg.SourceDir)))

	sources, err := FindSources(cfg, logger)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		Outcomes: make([]Outcome, len(sources)),
		Progress: &ParseProgress{},
	}
	batch.Progress.Init(len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, path := range sources {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := ParseSource(path, cfg, logger)
			switch {
			case o.Err != nil:
				batch.Progress.AddFailed()
			case o.Skipped:
				batch.Progress.AddSkipped()
			default:
				batch.Progress.AddParsed()
			}
			LogOutcome(logger, o)
			batch.Outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(batch.Outcomes, func(i, j int) bool {
		return batch.Outcomes[i].Source < batch.Outcomes[j].Source
	})

	parsed, skipped, failed := batch.Progress.Counts()
	logger.Info("batch summary",
		"sources", strconv.Itoa(len(sources)),
		"parsed", strconv.Itoa(parsed),
		"skipped", strconv.Itoa(skipped),
		"failed", strconv.Itoa(failed),
		"progress", fmt.Sprintf("%.1f%%", successRate(parsed, skipped, len(sources))),
	)
	return batch, nil
}

// successRate is the share of units that did not fail.
func successRate(parsed, skipped, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(parsed+skipped) / float64(total) * 100
}
