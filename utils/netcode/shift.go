package netcode

import (
	"regexp"
	"strconv"
	"strings"
)

// operand is the shape of the value expression inside a writer call.
type operand int

const (
	operandIntField    operand = iota // this.var_1 >>> 11 | this.var_1 << 21
	operandNarrowField                // (65535 & this.var_1) >>> 3 | ...
	operandLocal                      // _loc3_ >>> 5 | _loc3_ << 27
)

func fieldOperand(t PrimitiveType) operand {
	if t == TypeInt {
		return operandIntField
	}
	return operandNarrowField
}

var operandPrefixes = map[operand]string{
	operandIntField:    `this\.(\w+)`,
	operandNarrowField: `this\.(\w+)\)`,
	operandLocal:       `(_loc\d+_)\)*`,
}

type shiftPatterns struct {
	plain  *regexp.Regexp
	modulo *regexp.Regexp
}

var (
	shiftOperators = regexp.MustCompile(`[|<>]`)
	rotations      = compileRotations()
	reWrittenField = regexp.MustCompile(`param1\.write\w+\(this\.(\w+)\)`)
	reWrittenLocal = regexp.MustCompile(`param1\.write\w+\((_loc\d+_)\)`)
)

func compileRotations() map[operand]shiftPatterns {
	out := make(map[operand]shiftPatterns, len(operandPrefixes))
	for op, prefix := range operandPrefixes {
		out[op] = shiftPatterns{
			plain:  regexp.MustCompile(prefix + ` (>>>|<<) (\d+) \|`),
			modulo: regexp.MustCompile(prefix + ` (>>>|<<) (\d+) % (\d+) \|`),
		}
	}
	return out
}

// parseRotation extracts the operand name and the first rotation of a
// rotated writer argument. When the line computes the amount with a modulo
// the literal before '%' is kept as Amount and the divisor as Modulo.
func parseRotation(line string, op operand) (string, *ShiftOperation, bool) {
	patterns := rotations[op]
	re := patterns.plain
	if strings.Contains(line, "%") {
		re = patterns.modulo
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	amount, err := strconv.Atoi(m[3])
	if err != nil {
		return "", nil, false
	}
	shift := &ShiftOperation{Direction: Right, Amount: amount}
	if m[2] == "<<" {
		shift.Direction = Left
	}
	if len(m) > 4 {
		if shift.Modulo, err = strconv.Atoi(m[4]); err != nil {
			return "", nil, false
		}
	}
	return m[1], shift, true
}

// parseWrittenValue returns the name written by a writer call and its
// rotation, if any. Types that are never rotated ignore operator characters.
func parseWrittenValue(line string, t PrimitiveType, op operand) (string, *ShiftOperation, bool) {
	if t.Rotatable() && shiftOperators.MatchString(line) {
		return parseRotation(line, op)
	}
	re := reWrittenField
	if op == operandLocal {
		re = reWrittenLocal
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	return m[1], nil, true
}
