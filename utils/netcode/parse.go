// Package netcode recovers packet schemas from decompiled packet classes.
//
// A unit is read as plain lines. Small extractors pull the class header,
// constants, fields, constructor and packet id out of it, and a line-driven
// state machine walks the write method to recover the order in which the
// client emits each value, including the bit rotations it applies.
package netcode

import (
	"io"
	"log/slog"
)

// Trace selects which diagnostic records the parser emits at debug level.
// None of the switches change parse results.
type Trace struct {
	ParseSteps         bool `mapstructure:"parse_steps"`
	SourceLines        bool `mapstructure:"source_lines"`
	EmittedDefinitions bool `mapstructure:"emitted_definitions"`
	SectionHeaders     bool `mapstructure:"section_headers"`
}

type options struct {
	logger *slog.Logger
	tr     Trace
}

type Option func(*options)

// WithLogger sends trace records to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithTrace(t Trace) Option {
	return func(o *options) { o.tr = t }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

func (o *options) trace(msg string, args ...any) {
	if o.tr.ParseSteps {
		o.logger.Debug(msg, args...)
	}
}

func (o *options) transition(from, to parseState) {
	if o.tr.ParseSteps || o.tr.SectionHeaders {
		o.logger.Debug("parser state", "from", from.String(), "to", to.String())
	}
}

func (o *options) sourceLine(idx int, line string) {
	if o.tr.SourceLines {
		o.logger.Debug("source line", "line_no", idx+1, "text", line)
	}
}

func (o *options) emitted(step WriteStep) {
	if o.tr.EmittedDefinitions {
		r := toRecord(step)
		o.logger.Debug("emitted step", "kind", string(r.Type), "name", r.Name)
	}
}

func (o *options) sectionHeader(title string) {
	if o.tr.SectionHeaders {
		o.logger.Debug("section", "title", title)
	}
}

// Parse assembles the schema of one unit. It returns nil and no error for
// units ShouldSkip excludes; any extractor failure is returned unchanged
// and no partial schema is produced.
func Parse(u *CompilationUnit, opts ...Option) (*PacketSchema, error) {
	o := newOptions(opts)
	if ShouldSkip(u) {
		o.trace("skipping unit", "unit", u.Name)
		return nil, nil
	}
	header, err := ParseClassHeader(u)
	if err != nil {
		return nil, err
	}
	o.sectionHeader(header.Name)
	constants, err := ParseConstants(u)
	if err != nil {
		return nil, err
	}
	ctor, err := ParseConstructor(u, header.Name)
	if err != nil {
		return nil, err
	}
	fields, err := ParseFields(u)
	if err != nil {
		return nil, err
	}
	id, err := ParseModuleID(u)
	if err != nil {
		return nil, err
	}
	body, err := parseWriteBody(u, o)
	if err != nil {
		return nil, err
	}
	return &PacketSchema{
		ID:                    id,
		InitialName:           header.Name,
		Name:                  header.Name,
		Base:                  header.Base,
		Constants:             constants,
		ConstructorDefinition: ctor,
		Fields:                fields,
		WriteBody:             body,
	}, nil
}
