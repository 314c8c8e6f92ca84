package netcode

import (
	"fmt"
	"strconv"
	"strings"
)

// PrimitiveType is the wire type named by a writer method suffix
// (writeShort -> short, writeUTF -> utf).
type PrimitiveType string

const (
	TypeBoolean PrimitiveType = "boolean"
	TypeByte    PrimitiveType = "byte"
	TypeDouble  PrimitiveType = "double"
	TypeFloat   PrimitiveType = "float"
	TypeInt     PrimitiveType = "int"
	TypeShort   PrimitiveType = "short"
	TypeUTF     PrimitiveType = "utf"
)

var knownTypes = map[PrimitiveType]bool{
	TypeBoolean: true,
	TypeByte:    true,
	TypeDouble:  true,
	TypeFloat:   true,
	TypeInt:     true,
	TypeShort:   true,
	TypeUTF:     true,
}

// ParsePrimitiveType maps a writer suffix to its primitive type. The
// second result is false for suffixes outside the seven known types.
func ParsePrimitiveType(suffix string) (PrimitiveType, bool) {
	t := PrimitiveType(strings.ToLower(suffix))
	return t, knownTypes[t]
}

// Rotatable reports whether the client may rotate values of this type
// before sending them. Fixed-width floats, booleans and strings never are.
func (t PrimitiveType) Rotatable() bool {
	switch t {
	case TypeBoolean, TypeDouble, TypeFloat, TypeUTF:
		return false
	}
	return true
}

type ClassHeader struct {
	Name string
	Base string
}

type Constant struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value int64  `json:"value" yaml:"value"`
}

// Field is a declared instance field. InitialName keeps the obfuscated
// identifier so a renaming pass can change Name and stay traceable.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	InitialName string `json:"initialName" yaml:"initialName"`
	Type        string `json:"type" yaml:"type"`
}

// FieldRef says where a constructor parameter ends up: in an owned field
// or at a position of the superclass constructor call.
type FieldRef struct {
	field string
	slot  int
	super bool
}

const superRefPrefix = "super$"

func Owned(field string) FieldRef { return FieldRef{field: field} }

func SuperSlot(index int) FieldRef { return FieldRef{slot: index, super: true} }

// Field returns the owned field name, or false for a super slot.
func (r FieldRef) Field() (string, bool) { return r.field, !r.super }

// Slot returns the super constructor position, or false for an owned field.
func (r FieldRef) Slot() (int, bool) { return r.slot, r.super }

func (r FieldRef) String() string {
	if r.super {
		return superRefPrefix + strconv.Itoa(r.slot)
	}
	return r.field
}

func (r FieldRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *FieldRef) UnmarshalText(text []byte) error {
	s := string(text)
	if rest, ok := strings.CutPrefix(s, superRefPrefix); ok {
		idx, err := strconv.Atoi(rest)
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid super slot reference %q", s)
		}
		*r = SuperSlot(idx)
		return nil
	}
	if s == "" {
		return fmt.Errorf("empty field reference")
	}
	*r = Owned(s)
	return nil
}

type ConstructorParam struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	FieldRef FieldRef `json:"fieldRef" yaml:"fieldRef"`
}

type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// ShiftOperation is the rotation the client applies before sending.
// Modulo is the divisor when the amount is written as "N % M"; Amount is
// still the literal N.
type ShiftOperation struct {
	Direction Direction `json:"direction" yaml:"direction"`
	Amount    int       `json:"amount" yaml:"amount"`
	Modulo    int       `json:"modulo,omitempty" yaml:"modulo,omitempty"`
}

// StepKind discriminates write steps in exported schemas.
type StepKind string

const (
	StepScalar            StepKind = "scalar"
	StepArrayOfPrimitives StepKind = "arrayOfPrimitives"
	StepArrayOfModules    StepKind = "arrayOfModules"
	StepConditional       StepKind = "submodule"
	StepSuperCall         StepKind = "super_call"
)

// WriteStep is one entry of a write body, in wire order.
type WriteStep interface {
	Kind() StepKind
}

type Scalar struct {
	Name  string
	Type  PrimitiveType
	Shift *ShiftOperation
}

type ArrayOfPrimitives struct {
	Name        string
	LengthType  PrimitiveType
	ElementType PrimitiveType
	Shift       *ShiftOperation
}

type ArrayOfModules struct {
	Name       string
	LengthType PrimitiveType
}

// Conditional marks an if-guarded optional sub-field. The guarded body is
// not decomposed.
type Conditional struct {
	FieldName string
}

type SuperCall struct{}

func (Scalar) Kind() StepKind            { return StepScalar }
func (ArrayOfPrimitives) Kind() StepKind { return StepArrayOfPrimitives }
func (ArrayOfModules) Kind() StepKind    { return StepArrayOfModules }
func (Conditional) Kind() StepKind       { return StepConditional }
func (SuperCall) Kind() StepKind         { return StepSuperCall }

// PacketSchema is the recovered description of one packet class.
type PacketSchema struct {
	ID                    int                `json:"id" yaml:"id"`
	InitialName           string             `json:"initialName" yaml:"initialName"`
	Name                  string             `json:"name" yaml:"name"`
	Base                  string             `json:"base" yaml:"base"`
	Constants             []Constant         `json:"constants" yaml:"constants"`
	ConstructorDefinition []ConstructorParam `json:"constructorDefinition" yaml:"constructorDefinition"`
	Fields                []Field            `json:"fields" yaml:"fields"`
	WriteBody             WriteBody          `json:"writeBody" yaml:"writeBody"`
}

// FieldByInitialName looks a field up by its original identifier.
func (p *PacketSchema) FieldByInitialName(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.InitialName == name {
			return f, true
		}
	}
	return Field{}, false
}
