package netcode

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	classDeclaration  = "public class"
	constantMarker    = "const const"
	notDecompiled     = "Not decompiled"
	factorySignature  = "createInstance(param1:int) : IModule"
	constantValueType = "int"
)

var (
	reClassName      = regexp.MustCompile(`public class (\w+)`)
	reClassBase      = regexp.MustCompile(`\b(extends|implements)\s+(\w+)`)
	reInterfaceList  = regexp.MustCompile(`\bimplements\s+\w+\s*,`)
	reConstant       = regexp.MustCompile(` const (\w+):(\w+) = ([^;]+)`)
	reFieldDecl      = regexp.MustCompile(`public var (\w+):([\w<>.]+)`)
	reCtorParam      = regexp.MustCompile(`(param\d+):([\w.<>]+)`)
	reSuperCall      = regexp.MustCompile(`\bsuper\(([^)]*)\)`)
	reModuleIDHex    = regexp.MustCompile(`param1\.writeShort\(0[xX]([0-9a-fA-F]+)\)`)
	reModuleIDFactor = regexp.MustCompile(`param1\.writeShort\((-?\d+)(?:\s*\*\s*(-?\d+))?(?:\s*\*\s*(-?\d+))?\)`)
)

func (u *CompilationUnit) find(match func(string) bool) int {
	for i, line := range u.Lines {
		if match(line) {
			return i
		}
	}
	return -1
}

// ShouldSkip reports units that are not packet classes: files the
// decompiler gave up on and the module factory.
func ShouldSkip(u *CompilationUnit) bool {
	return u.find(func(line string) bool {
		return strings.Contains(line, notDecompiled) || strings.Contains(line, factorySignature)
	}) >= 0
}

// ParseClassHeader reads the class name and its single base type.
func ParseClassHeader(u *CompilationUnit) (ClassHeader, error) {
	idx := u.find(func(line string) bool { return strings.Contains(line, classDeclaration) })
	if idx < 0 {
		return ClassHeader{}, u.fail(ErrMalformedHeader, -1, "no class declaration")
	}
	line := u.Lines[idx]
	name := reClassName.FindStringSubmatch(line)
	if name == nil {
		return ClassHeader{}, u.fail(ErrMalformedHeader, idx, "no class name")
	}
	bases := reClassBase.FindAllStringSubmatch(line, -1)
	if len(bases) == 0 {
		return ClassHeader{}, u.fail(ErrMissingBase, idx, "no extends or implements clause")
	}
	if len(bases) > 1 || reInterfaceList.MatchString(line) {
		return ClassHeader{}, u.fail(ErrMalformedHeader, idx, "more than one base type")
	}
	return ClassHeader{Name: name[1], Base: bases[0][2]}, nil
}

// ParseConstants returns the integer constants the class declares.
func ParseConstants(u *CompilationUnit) ([]Constant, error) {
	constants := []Constant{}
	for i, line := range u.Lines {
		if !strings.Contains(line, constantMarker) {
			continue
		}
		m := reConstant.FindStringSubmatch(line)
		if m == nil {
			return nil, u.fail(ErrMalformedConstant, i, "cannot split constant declaration")
		}
		if m[2] != constantValueType {
			return nil, u.fail(ErrUnsupportedConstantType, i, "constant %s has type %s", m[1], m[2])
		}
		v, err := parseIntLiteral(strings.TrimSpace(m[3]))
		if err != nil {
			return nil, u.fail(ErrMalformedConstant, i, "constant %s value %q", m[1], m[3])
		}
		constants = append(constants, Constant{Name: m[1], Type: m[2], Value: v})
	}
	return constants, nil
}

// ParseFields returns the declared public fields. Fields declared int are
// retyped from the writer their value is sent with, since the decompiler
// widens short fields to int.
func ParseFields(u *CompilationUnit) ([]Field, error) {
	fields := []Field{}
	for i, line := range u.Lines {
		m := reFieldDecl.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, typ := m[1], m[2]
		if typ == string(TypeInt) {
			writer, ok := u.writerFor(name)
			if !ok {
				return nil, u.fail(ErrUnresolvedFieldType, i, "no write call for int field %s", name)
			}
			typ = writer
		}
		fields = append(fields, Field{Name: name, InitialName: name, Type: strings.ToLower(typ)})
	}
	return fields, nil
}

func (u *CompilationUnit) writerFor(field string) (string, bool) {
	re := regexp.MustCompile(`param1\.write(\w+)\(.*\bthis\.` + regexp.QuoteMeta(field) + `\b`)
	for _, line := range u.Lines {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ParseConstructor resolves the parameters of the class' own constructor.
// A class without an explicit constructor has none.
func ParseConstructor(u *CompilationUnit, className string) ([]ConstructorParam, error) {
	params := []ConstructorParam{}
	decl := regexp.MustCompile(`function ` + regexp.QuoteMeta(className) + `\s*\(`)
	idx := u.find(decl.MatchString)
	if idx < 0 {
		return params, nil
	}
	for _, m := range reCtorParam.FindAllStringSubmatch(u.Lines[idx], -1) {
		ref, ok := u.resolveParam(m[1])
		if !ok {
			return nil, u.fail(ErrUnresolvedConstructorParam, idx, "%s is neither assigned to a field nor passed to super", m[1])
		}
		params = append(params, ConstructorParam{Name: m[1], Type: m[2], FieldRef: ref})
	}
	return params, nil
}

func (u *CompilationUnit) resolveParam(param string) (FieldRef, bool) {
	assign := regexp.MustCompile(`this\.(\w+) = ` + regexp.QuoteMeta(param) + `\s*;?$`)
	for _, line := range u.Lines {
		if m := assign.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return Owned(m[1]), true
		}
	}
	for _, line := range u.Lines {
		m := reSuperCall.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for i, arg := range strings.Split(m[1], ",") {
			if strings.TrimSpace(arg) == param {
				return SuperSlot(i), true
			}
		}
	}
	return FieldRef{}, false
}

// ParseModuleID evaluates the packet identifier written by the first
// writeShort call whose argument is a decimal or hex literal, or a product
// of two or three decimal literals.
func ParseModuleID(u *CompilationUnit) (int, error) {
	for i, line := range u.Lines {
		if m := reModuleIDHex.FindStringSubmatch(line); m != nil {
			v, err := strconv.ParseInt(m[1], 16, 64)
			if err != nil {
				return 0, u.fail(ErrUnresolvedModuleID, i, "hex literal %s", m[1])
			}
			return int(v), nil
		}
		m := reModuleIDFactor.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := 1
		for _, factor := range m[1:] {
			if factor == "" {
				continue
			}
			v, err := strconv.Atoi(factor)
			if err != nil {
				return 0, u.fail(ErrUnresolvedModuleID, i, "factor %s", factor)
			}
			id *= v
		}
		return id, nil
	}
	return 0, u.fail(ErrUnresolvedModuleID, -1, "no writeShort call with a literal id")
}

func parseIntLiteral(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(digits), "0x"); ok {
		digits, base = rest, 16
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}
