package mappings

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/netcode/utils"
	"github.com/ruinedyourlife/netcode/utils/netcode"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func packet(name, base string, constants []netcode.Constant, fields ...netcode.Field) *netcode.PacketSchema {
	p := &netcode.PacketSchema{
		InitialName: name,
		Name:        name,
		Base:        base,
		Constants:   constants,
	}
	for _, f := range fields {
		if f.InitialName == "" {
			f.InitialName = f.Name
		}
		p.Fields = append(p.Fields, f)
		p.WriteBody = append(p.WriteBody, netcode.Scalar{Name: f.Name, Type: netcode.PrimitiveType(f.Type)})
		p.ConstructorDefinition = append(p.ConstructorDefinition, netcode.ConstructorParam{
			Name: "param1", Type: f.Type, FieldRef: netcode.Owned(f.Name),
		})
	}
	return p
}

func TestFindConstantBasedMatchesNeedsUniqueCandidate(t *testing.T) {
	consts := []netcode.Constant{{Name: "const_1", Type: "int", Value: 4}}
	fresh := []*netcode.PacketSchema{
		packet("class_10", "IModule", consts),
		packet("class_11", "IModule", []netcode.Constant{{Name: "const_9", Type: "int", Value: 7}}),
		packet("class_12", "IModule", nil),
	}
	known := []*netcode.PacketSchema{
		packet("LoginRequest", "IModule", []netcode.Constant{{Name: "const_77", Type: "int", Value: 4}}),
		packet("ChatMessage", "IModule", []netcode.Constant{{Name: "a", Type: "int", Value: 7}}),
		packet("ChatReply", "IModule", []netcode.Constant{{Name: "b", Type: "int", Value: 7}}),
	}
	progress := &utils.MatchingProgress{}
	progress.Init(len(fresh))

	matches := FindConstantBasedMatches(fresh, known, progress, discardLogger())

	require.Len(t, matches, 1)
	assert.Equal(t, "class_10", matches[0].FreshName)
	assert.Equal(t, "LoginRequest", matches[0].KnownName)
	assert.Equal(t, utils.MatchByConstants, matches[0].Method)
	assert.Equal(t, 1, progress.Matched())
}

func TestFindStrictStructureBasedMatchesPeelsIteratively(t *testing.T) {
	fresh := []*netcode.PacketSchema{
		packet("class_20", "IModule", nil, netcode.Field{Name: "var_1", Type: "int"}),
		packet("class_21", "IModule", nil, netcode.Field{Name: "var_2", Type: "int"}, netcode.Field{Name: "var_3", Type: "utf"}),
		packet("class_22", "class_20", nil, netcode.Field{Name: "var_4", Type: "double"}),
	}
	known := []*netcode.PacketSchema{
		packet("Ping", "IModule", nil, netcode.Field{Name: "seq", Type: "int"}),
		packet("Hello", "IModule", nil, netcode.Field{Name: "version", Type: "int"}, netcode.Field{Name: "client", Type: "utf"}),
		packet("Move", "class_3", nil, netcode.Field{Name: "speed", Type: "double"}),
	}
	progress := &utils.MatchingProgress{}
	progress.Init(len(fresh))

	matches, passes := FindStrictStructureBasedMatches(fresh, known, nil, progress, discardLogger())

	require.Len(t, matches, 3)
	got := map[string]string{}
	for _, m := range matches {
		got[m.FreshName] = m.KnownName
		assert.Equal(t, 100.0, m.MatchPercent)
	}
	assert.Equal(t, map[string]string{"class_20": "Ping", "class_21": "Hello", "class_22": "Move"}, got)
	assert.Equal(t, 2, passes)
	assert.InDelta(t, 100.0, progress.GetProgress(), 0.001)
}

func TestFindStrictStructureBasedMatchesLeavesAmbiguity(t *testing.T) {
	fresh := []*netcode.PacketSchema{
		packet("class_30", "IModule", nil, netcode.Field{Name: "var_1", Type: "int"}),
	}
	known := []*netcode.PacketSchema{
		packet("A", "IModule", nil, netcode.Field{Name: "a", Type: "int"}),
		packet("B", "IModule", nil, netcode.Field{Name: "b", Type: "int"}),
	}
	progress := &utils.MatchingProgress{}
	progress.Init(len(fresh))

	matches, _ := FindStrictStructureBasedMatches(fresh, known, nil, progress, discardLogger())

	assert.Empty(t, matches)
}

func TestFindStrictStructureBasedMatchesSkipsPriorMatches(t *testing.T) {
	fresh := []*netcode.PacketSchema{
		packet("class_40", "IModule", nil, netcode.Field{Name: "var_1", Type: "int"}),
		packet("class_41", "IModule", nil, netcode.Field{Name: "var_2", Type: "int"}),
	}
	known := []*netcode.PacketSchema{
		packet("A", "IModule", nil, netcode.Field{Name: "a", Type: "int"}),
		packet("B", "IModule", nil, netcode.Field{Name: "b", Type: "int"}),
	}
	prior := []utils.PacketMatch{{FreshName: "class_40", KnownName: "A", Method: utils.MatchByConstants}}
	progress := &utils.MatchingProgress{}
	progress.Init(len(fresh))

	matches, _ := FindStrictStructureBasedMatches(fresh, known, prior, progress, discardLogger())

	require.Len(t, matches, 1)
	assert.Equal(t, "class_41", matches[0].FreshName)
	assert.Equal(t, "B", matches[0].KnownName)
}

func TestRenamePacketsKeepsInitialNames(t *testing.T) {
	fresh := []*netcode.PacketSchema{
		packet("class_50", "IModule",
			[]netcode.Constant{{Name: "const_1", Type: "int", Value: 3}},
			netcode.Field{Name: "var_1", Type: "int"},
		),
		packet("class_51", "IModule", nil,
			netcode.Field{Name: "var_2", Type: "utf"},
			netcode.Field{Name: "var_3", Type: "boolean"},
		),
	}
	known := []*netcode.PacketSchema{
		packet("QuestAccept", "IModule",
			[]netcode.Constant{{Name: "STATE", Type: "int", Value: 3}},
			netcode.Field{Name: "questId", InitialName: "var_900", Type: "int"},
		),
		packet("Whisper", "IModule", nil,
			netcode.Field{Name: "target", Type: "utf"},
			netcode.Field{Name: "silent", Type: "boolean"},
		),
	}

	matches := RenamePackets(fresh, known, discardLogger())

	require.Len(t, matches, 2)
	assert.Equal(t, "QuestAccept", fresh[0].Name)
	assert.Equal(t, "class_50", fresh[0].InitialName)
	assert.Equal(t, "questId", fresh[0].Fields[0].Name)
	assert.Equal(t, "var_1", fresh[0].Fields[0].InitialName)
	assert.Equal(t, netcode.Owned("questId"), fresh[0].ConstructorDefinition[0].FieldRef)

	assert.Equal(t, "Whisper", fresh[1].Name)
	assert.Equal(t, []string{"target", "silent"}, []string{fresh[1].Fields[0].Name, fresh[1].Fields[1].Name})
	assert.Equal(t, "target", fresh[1].WriteBody[0].(netcode.Scalar).Name)
}

func TestApplyMatchesKeepsFieldsWhenTypesDiffer(t *testing.T) {
	fresh := []*netcode.PacketSchema{
		packet("class_60", "IModule", nil, netcode.Field{Name: "var_1", Type: "int"}),
	}
	known := []*netcode.PacketSchema{
		packet("Logout", "IModule", nil, netcode.Field{Name: "reason", Type: "utf"}),
	}

	ApplyMatches(fresh, known, []utils.PacketMatch{{FreshName: "class_60", KnownName: "Logout"}}, discardLogger())

	assert.Equal(t, "Logout", fresh[0].Name)
	assert.Equal(t, "var_1", fresh[0].Fields[0].Name)
}
