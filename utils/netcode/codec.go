package netcode

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// WriteBody is the ordered list of write steps of a packet.
type WriteBody []WriteStep

// stepRecord is the flat exported form of a WriteStep.
type stepRecord struct {
	Type       StepKind        `json:"type" yaml:"type"`
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	FieldType  PrimitiveType   `json:"fieldType,omitempty" yaml:"fieldType,omitempty"`
	LengthType PrimitiveType   `json:"length_type,omitempty" yaml:"length_type,omitempty"`
	SubType    PrimitiveType   `json:"subType,omitempty" yaml:"subType,omitempty"`
	Shift      *ShiftOperation `json:"shiftOperationFromClientToServer,omitempty" yaml:"shiftOperationFromClientToServer,omitempty"`
}

func toRecord(step WriteStep) stepRecord {
	switch s := step.(type) {
	case Scalar:
		return stepRecord{Type: StepScalar, Name: s.Name, FieldType: s.Type, Shift: s.Shift}
	case ArrayOfPrimitives:
		return stepRecord{Type: StepArrayOfPrimitives, Name: s.Name, LengthType: s.LengthType, SubType: s.ElementType, Shift: s.Shift}
	case ArrayOfModules:
		return stepRecord{Type: StepArrayOfModules, Name: s.Name, LengthType: s.LengthType}
	case Conditional:
		return stepRecord{Type: StepConditional, Name: s.FieldName}
	case SuperCall:
		return stepRecord{Type: StepSuperCall, Name: "super_call"}
	}
	panic(fmt.Sprintf("netcode: unhandled write step %T", step))
}

func fromRecord(r stepRecord) (WriteStep, error) {
	switch r.Type {
	case StepScalar:
		return Scalar{Name: r.Name, Type: r.FieldType, Shift: r.Shift}, nil
	case StepArrayOfPrimitives:
		return ArrayOfPrimitives{Name: r.Name, LengthType: r.LengthType, ElementType: r.SubType, Shift: r.Shift}, nil
	case StepArrayOfModules:
		return ArrayOfModules{Name: r.Name, LengthType: r.LengthType}, nil
	case StepConditional:
		return Conditional{FieldName: r.Name}, nil
	case StepSuperCall:
		return SuperCall{}, nil
	}
	return nil, fmt.Errorf("unknown write step type %q", r.Type)
}

func (b WriteBody) records() []stepRecord {
	out := make([]stepRecord, 0, len(b))
	for _, step := range b {
		out = append(out, toRecord(step))
	}
	return out
}

func bodyFromRecords(records []stepRecord) (WriteBody, error) {
	body := make(WriteBody, 0, len(records))
	for i, r := range records {
		step, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("write step %d: %w", i, err)
		}
		body = append(body, step)
	}
	return body, nil
}

func (b WriteBody) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.records())
}

func (b *WriteBody) UnmarshalJSON(data []byte) error {
	var records []stepRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	body, err := bodyFromRecords(records)
	if err != nil {
		return err
	}
	*b = body
	return nil
}

func (b WriteBody) MarshalYAML() (any, error) {
	return b.records(), nil
}

func (b *WriteBody) UnmarshalYAML(node *yaml.Node) error {
	var records []stepRecord
	if err := node.Decode(&records); err != nil {
		return err
	}
	body, err := bodyFromRecords(records)
	if err != nil {
		return err
	}
	*b = body
	return nil
}
