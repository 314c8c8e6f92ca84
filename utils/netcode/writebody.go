package netcode

import (
	"regexp"
	"strings"
)

type parseState int

const (
	stateSearch parseState = iota
	stateBodyStart
	stateFindPacketID
	stateBody
	stateForEach
	stateArrayDefinition
	stateSkipIfElse
)

var stateNames = [...]string{
	stateSearch:          "SEARCH",
	stateBodyStart:       "BODY_START",
	stateFindPacketID:    "BODY_FIND_PACKET_ID",
	stateBody:            "BODY",
	stateForEach:         "BODY_FOREACH",
	stateArrayDefinition: "BODY_ARRAY_DEFINITION",
	stateSkipIfElse:      "BODY_SKIP_IF_ELSE",
}

func (s parseState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

const packetIDWriter = "param1.writeShort"

// reLoopCounter matches the counter update of an index loop, e.g. "_loc2_++;".
var reLoopCounter = regexp.MustCompile(`^_loc\d+_\s*(\+\+|--|[+-]=|= _loc\d+_ [+-] 1)`)

type bodyParser struct {
	unit  *CompilationUnit
	opts  *options
	state parseState
	steps WriteBody

	// length-prefixed array being defined
	arrayName   string
	arrayLength PrimitiveType

	forEachField string
}

// ParseWriteBody walks the write method and returns its steps in wire
// order. The packet id write that opens the body is not a step.
func ParseWriteBody(u *CompilationUnit, opts ...Option) (WriteBody, error) {
	return parseWriteBody(u, newOptions(opts))
}

func parseWriteBody(u *CompilationUnit, o *options) (WriteBody, error) {
	p := &bodyParser{unit: u, opts: o, steps: WriteBody{}}
	o.sectionHeader("STATE: " + p.state.String())
	for i, line := range u.Lines {
		o.sourceLine(i, line)
		if err := p.feed(i, Classify(line)); err != nil {
			return nil, err
		}
	}
	if p.state != stateBody {
		if p.state == stateForEach {
			return nil, u.fail(ErrUnhandledState, -1, "for each over this.%s is not decomposed", p.forEachField)
		}
		return nil, u.fail(ErrUnhandledState, -1, "input ended in state %s", p.state)
	}
	return p.steps, nil
}

func (p *bodyParser) transition(to parseState) {
	p.opts.transition(p.state, to)
	p.state = to
}

func (p *bodyParser) emit(step WriteStep) {
	p.opts.emitted(step)
	p.steps = append(p.steps, step)
}

func (p *bodyParser) feed(i int, sh Shape) error {
	switch p.state {
	case stateSearch:
		if sh.Kind == LineWriteMethod {
			if sh.Opens {
				p.transition(stateFindPacketID)
			} else {
				p.transition(stateBodyStart)
			}
		}
		return nil
	case stateBodyStart:
		if sh.Opens {
			p.transition(stateFindPacketID)
		}
		return nil
	case stateFindPacketID:
		return p.findPacketID(i, sh)
	case stateBody:
		return p.body(i, sh)
	case stateArrayDefinition:
		return p.arrayDefinition(i, sh)
	case stateSkipIfElse:
		if sh.Closes {
			p.transition(stateBody)
		}
		return nil
	case stateForEach:
		return p.unit.fail(ErrUnhandledState, i, "for each over this.%s is not decomposed", p.forEachField)
	}
	return p.unit.fail(ErrUnhandledState, i, "state %s", p.state)
}

func (p *bodyParser) findPacketID(i int, sh Shape) error {
	switch {
	case strings.HasPrefix(sh.Text, packetIDWriter):
		p.opts.trace("packet id line", "line", sh.Text)
		p.transition(stateBody)
	case sh.Kind == LineLocalDecl, sh.Kind == LineBlank:
		p.opts.trace("local declaration before packet id", "line", sh.Text)
	default:
		return p.unit.fail(ErrUnexpectedLine, i, "expected the packet id write")
	}
	return nil
}

func (p *bodyParser) body(i int, sh Shape) error {
	switch sh.Kind {
	case LineForEach:
		if sh.Field == "" {
			return p.unit.fail(ErrUnexpectedLine, i, "cannot detect the iterated field")
		}
		p.forEachField = sh.Field
		p.transition(stateForEach)
	case LineSuperWrite:
		p.emit(SuperCall{})
	case LineLengthPrefix:
		if sh.Writer == "" {
			return p.unit.fail(ErrUnexpectedLine, i, "length reference outside a writer call")
		}
		lengthType, ok := ParsePrimitiveType(sh.Writer)
		if !ok {
			return p.unit.fail(ErrUnknownType, i, "length writer %q", sh.Writer)
		}
		p.arrayName, p.arrayLength = sh.Field, lengthType
		p.transition(stateArrayDefinition)
	case LineGuard:
		if sh.Field == "" {
			return p.unit.fail(ErrUnexpectedLine, i, "guard does not reference a field")
		}
		p.emit(Conditional{FieldName: sh.Field})
		p.transition(stateSkipIfElse)
	case LineElse:
		p.transition(stateSkipIfElse)
	case LineTargetWrite:
		return p.scalar(i, sh)
	case LineModuleWrite, LineTargetOther:
		return p.unit.fail(ErrUnexpectedLine, i, "unrecognized use of the output stream")
	}
	return nil
}

func (p *bodyParser) scalar(i int, sh Shape) error {
	t, ok := ParsePrimitiveType(sh.Writer)
	if !ok {
		return p.unit.fail(ErrUnknownType, i, "writer suffix %q", sh.Writer)
	}
	name, shift, ok := parseWrittenValue(sh.Text, t, fieldOperand(t))
	if !ok {
		return p.unit.fail(ErrUnexpectedLine, i, "cannot read the %s value written", t)
	}
	p.emit(Scalar{Name: name, Type: t, Shift: shift})
	return nil
}

func (p *bodyParser) arrayDefinition(i int, sh Shape) error {
	switch {
	case sh.Kind == LineCloseBrace:
		p.transition(stateBody)
	case sh.Kind == LineBlank, sh.Kind == LineForEach, sh.Kind == LineLoop, sh.Opens, sh.Closes:
		p.opts.trace("skip array loop line", "line", sh.Text)
	case sh.Kind == LineOther && reLoopCounter.MatchString(sh.Text):
		p.opts.trace("skip loop counter", "line", sh.Text)
	case sh.Kind == LineModuleWrite:
		p.emit(ArrayOfModules{Name: p.arrayName, LengthType: p.arrayLength})
	case sh.Kind == LineTargetWrite:
		elem, ok := ParsePrimitiveType(sh.Writer)
		if !ok {
			return p.unit.fail(ErrUnknownType, i, "array element writer %q", sh.Writer)
		}
		_, shift, ok := parseWrittenValue(sh.Text, elem, operandLocal)
		if !ok {
			return p.unit.fail(ErrUnexpectedLine, i, "cannot read the array element written")
		}
		p.emit(ArrayOfPrimitives{Name: p.arrayName, LengthType: p.arrayLength, ElementType: elem, Shift: shift})
	default:
		return p.unit.fail(ErrUnexpectedLine, i, "expected an element write for this.%s", p.arrayName)
	}
	return nil
}
