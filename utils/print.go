package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// PrintSchema writes a colored, human readable rendering of a packet.
func PrintSchema(w io.Writer, schema *netcode.PacketSchema) {
	bold := color.New(color.Bold)
	blue := color.New(color.FgBlue)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	purple := color.New(color.FgMagenta)
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)

	title := schema.Name
	if schema.InitialName != schema.Name {
		title = fmt.Sprintf("%s (%s)", schema.Name, schema.InitialName)
	}
	fmt.Fprintln(w, bold.Sprint(blue.Sprint("> packet: "), title))
	fmt.Fprintf(w, "  id %s, base %s\n", yellow.Sprint(schema.ID), purple.Sprint(schema.Base))

	if len(schema.Constants) > 0 {
		fmt.Fprintln(w, red.Sprint("\n  Constants:"))
		for _, c := range schema.Constants {
			fmt.Fprintf(w, "    %s:%s = %s\n", red.Sprint(c.Name), c.Type, yellow.Sprint(c.Value))
		}
	}

	if len(schema.Fields) > 0 {
		fmt.Fprintln(w, green.Sprint("\n  Fields:"))
		for _, f := range schema.Fields {
			name := green.Sprint(f.Name)
			if f.InitialName != f.Name {
				name += fmt.Sprintf(" (%s)", f.InitialName)
			}
			fmt.Fprintf(w, "    %s %s\n", cyan.Sprint(f.Type), name)
		}
	}

	if len(schema.ConstructorDefinition) > 0 {
		fmt.Fprintln(w, purple.Sprint("\n  Constructor:"))
		for _, p := range schema.ConstructorDefinition {
			target := green.Sprint(p.FieldRef)
			if slot, ok := p.FieldRef.Slot(); ok {
				target = purple.Sprintf("super slot %d", slot)
			}
			fmt.Fprintf(w, "    %s:%s -> %s\n", p.Name, cyan.Sprint(p.Type), target)
		}
	}

	if len(schema.WriteBody) > 0 {
		fmt.Fprintln(w, blue.Sprint("\n  Write order:"))
		for i, step := range schema.WriteBody {
			fmt.Fprintf(w, "    [%s] %s\n", yellow.Sprint(i), describeStep(step))
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}

func describeStep(step netcode.WriteStep) string {
	switch s := step.(type) {
	case netcode.Scalar:
		return fmt.Sprintf("%s %s%s", s.Type, color.GreenString(s.Name), describeShift(s.Shift))
	case netcode.ArrayOfPrimitives:
		return fmt.Sprintf("%s[%s] %s%s", s.ElementType, s.LengthType, color.GreenString(s.Name), describeShift(s.Shift))
	case netcode.ArrayOfModules:
		return fmt.Sprintf("module[%s] %s", s.LengthType, color.GreenString(s.Name))
	case netcode.Conditional:
		return fmt.Sprintf("optional module %s", color.GreenString(s.FieldName))
	case netcode.SuperCall:
		return color.MagentaString("super.write")
	}
	return fmt.Sprintf("%v", step)
}

func describeShift(op *netcode.ShiftOperation) string {
	if op == nil {
		return ""
	}
	arrow := "<<"
	if op.Direction == netcode.Right {
		arrow = ">>>"
	}
	s := fmt.Sprintf(" %s %d", arrow, op.Amount)
	if op.Modulo != 0 {
		s += fmt.Sprintf(" %% %d", op.Modulo)
	}
	return color.YellowString(s)
}
