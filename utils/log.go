package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel slog.Level

const (
	LevelDebug = LogLevel(slog.LevelDebug)
	LevelInfo  = LogLevel(slog.LevelInfo)
	LevelWarn  = LogLevel(slog.LevelWarn)
	LevelError = LogLevel(slog.LevelError)
)

func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", s)
}

const maxLineLength = 80

func truncateLine(s string) string {
	if len(s) <= maxLineLength {
		return s
	}
	return s[:maxLineLength] + "..."
}

type PrettyHandler struct {
	slog.Handler
	out io.Writer
}

func NewPrettyHandler(out io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	return &PrettyHandler{Handler: slog.NewTextHandler(out, opts), out: out}
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{Handler: h.Handler.WithAttrs(attrs), out: h.out}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{Handler: h.Handler.WithGroup(name), out: h.out}
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := ""
	switch r.Level {
	case slog.LevelDebug:
		level = color.BlueString("DBG")
	case slog.LevelInfo:
		level = color.GreenString("INF")
	case slog.LevelWarn:
		level = color.YellowString("WRN")
	case slog.LevelError:
		level = color.RedString("ERR")
	}

	attrs := make(map[string]string)
	var orderedAttrs []struct{ k, v string }
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		orderedAttrs = append(orderedAttrs, struct{ k, v string }{a.Key, a.Value.String()})
		return true
	})

	var output string
	switch msg := r.Message; msg {
	case "parsed packet":
		output = fmt.Sprintf("%s parsed %s (id %s, %s fields, %s steps)",
			level,
			color.GreenString(attrs["name"]),
			color.YellowString(attrs["id"]),
			attrs["fields"],
			attrs["steps"],
		)

	case "skipped unit":
		output = fmt.Sprintf("%s skipped %s (not a packet class)",
			level, color.HiBlackString(attrs["source"]))

	case "parse failed":
		output = fmt.Sprintf("%s %s: %s", level, color.RedString(attrs["source"]), attrs["error"])
		if line, ok := attrs["line"]; ok {
			output += fmt.Sprintf("\n     line %s: %s", attrs["line_no"], color.YellowString(truncateLine(line)))
		}

	case "batch summary":
		progress, _ := strconv.ParseFloat(strings.TrimSuffix(attrs["progress"], "%"), 64)
		output = fmt.Sprintf(`%s Parse Summary:
	Sources:  %s
	Parsed:   %s
	Skipped:  %s
	Failed:   %s
    Progress: %s %.1f%%`,
			level,
			color.YellowString(attrs["sources"]),
			color.GreenString(attrs["parsed"]),
			color.HiBlackString(attrs["skipped"]),
			color.RedString(attrs["failed"]),
			createProgressBar(progress),
			progress,
		)

	case "found constant-based match", "found structure-based match":
		output = fmt.Sprintf("%s %s: %s -> %s",
			level, strings.TrimPrefix(msg, "found "),
			color.GreenString(attrs["fresh"]), color.GreenString(attrs["known"]))

	case "renamed packet":
		output = fmt.Sprintf("%s renamed %s -> %s (%s fields)",
			level,
			color.HiBlackString(attrs["initial_name"]),
			color.GreenString(attrs["name"]),
			attrs["fields"],
		)

	case "rename summary":
		progress, _ := strconv.ParseFloat(strings.TrimSuffix(attrs["progress"], "%"), 64)
		output = fmt.Sprintf(`%s Rename Summary:
	Fresh packets:   %s
	Constant matches: %s
	Structure matches: %s
	Passes needed:    %s
    Progress: %s %.1f%%`,
			level,
			color.YellowString(attrs["fresh"]),
			color.GreenString(attrs["constant_matches"]),
			color.GreenString(attrs["structure_matches"]),
			color.BlueString(attrs["passes"]),
			createProgressBar(progress),
			progress,
		)

	default:
		output = fmt.Sprintf("%s %s", level, msg)
		for _, attr := range orderedAttrs {
			output += fmt.Sprintf(" %s=%s",
				color.New(color.Bold).Sprint(attr.k),
				strings.TrimSpace(attr.v),
			)
		}
	}

	_, err := fmt.Fprintln(h.out, output)
	return err
}

// teeHandler fans records out to every handler that accepts them.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// InitLogger builds the process logger: colored console output, plus a
// rotated JSON file when configured. It also becomes the slog default.
func InitLogger(cfg LogConfig) (*slog.Logger, error) {
	level, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: slog.Level(level)}

	var handler slog.Handler = NewPrettyHandler(os.Stdout, opts)
	if cfg.File.Enabled {
		w, err := createFileWriter(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to create file output: %w", err)
		}
		handler = teeHandler{handler, slog.NewJSONHandler(w, opts)}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

func createFileWriter(fc FileLogConfig) (io.Writer, error) {
	if fc.Path == "" {
		return nil, fmt.Errorf("file output requires 'path' field")
	}
	return &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.MaxSizeMB,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   fc.Compress,
	}, nil
}

func createProgressBar(percent float64) string {
	width := 30
	completed := int(percent * float64(width) / 100)
	if completed > width {
		completed = width
	}

	bar := strings.Builder{}
	bar.WriteString("[")
	bar.WriteString(color.GreenString(strings.Repeat("=", completed)))
	if completed < width {
		bar.WriteString(color.HiBlackString(strings.Repeat("-", width-completed)))
	}
	bar.WriteString("]")
	return bar.String()
}
