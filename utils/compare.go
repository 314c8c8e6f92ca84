package utils

import (
	"regexp"
	"strings"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

const (
	MatchByConstants = "constants"
	MatchByStructure = "structure"
)

// PacketMatch pairs a freshly parsed packet with the known packet whose
// names it inherits.
type PacketMatch struct {
	FreshName    string
	KnownName    string
	ID           int
	Method       string
	MatchPercent float64
}

// Obfuscated class names change between client builds, so they are compared
// as a placeholder.
var reObfuscatedClass = regexp.MustCompile(`\bclass_\d+\b`)

func normalizeTypeName(t string) string {
	return reObfuscatedClass.ReplaceAllString(strings.ToLower(t), "class_*")
}

// CompareConstants reports whether both packets declare the same non-empty
// list of constant types and values, in order.
func CompareConstants(fresh, known *netcode.PacketSchema) bool {
	if len(fresh.Constants) == 0 || len(fresh.Constants) != len(known.Constants) {
		return false
	}
	for i, c := range fresh.Constants {
		k := known.Constants[i]
		if c.Type != k.Type || c.Value != k.Value {
			return false
		}
	}
	return true
}

// SameBase compares base types, treating any two obfuscated classes as equal.
func SameBase(fresh, known *netcode.PacketSchema) bool {
	return normalizeTypeName(fresh.Base) == normalizeTypeName(known.Base)
}

// SameFieldTypes reports whether both packets declare fields of the same
// types in the same order.
func SameFieldTypes(fresh, known *netcode.PacketSchema) bool {
	if len(fresh.Fields) != len(known.Fields) {
		return false
	}
	for i, f := range fresh.Fields {
		if normalizeTypeName(f.Type) != normalizeTypeName(known.Fields[i].Type) {
			return false
		}
	}
	return true
}

// SameWriteShape compares the write bodies step by step, ignoring field
// names and rotation amounts.
func SameWriteShape(fresh, known *netcode.PacketSchema) bool {
	if len(fresh.WriteBody) != len(known.WriteBody) {
		return false
	}
	for i, step := range fresh.WriteBody {
		if stepShape(step) != stepShape(known.WriteBody[i]) {
			return false
		}
	}
	return true
}

type shape struct {
	kind        netcode.StepKind
	typ, length netcode.PrimitiveType
	rotated     bool
}

func stepShape(step netcode.WriteStep) shape {
	switch s := step.(type) {
	case netcode.Scalar:
		return shape{kind: s.Kind(), typ: s.Type, rotated: s.Shift != nil}
	case netcode.ArrayOfPrimitives:
		return shape{kind: s.Kind(), typ: s.ElementType, length: s.LengthType, rotated: s.Shift != nil}
	case netcode.ArrayOfModules:
		return shape{kind: s.Kind(), length: s.LengthType}
	}
	return shape{kind: step.Kind()}
}
