package netcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameFollowsFields(t *testing.T) {
	schema, err := parseFixture(t, "class_412.as")
	require.NoError(t, err)

	schema.Rename("ShipSettingsRequest", map[string]string{
		"var_1544": "slot",
		"var_913":  "hotkeys",
		"var_2805": "extra",
	})

	assert.Equal(t, "ShipSettingsRequest", schema.Name)
	assert.Equal(t, "class_412", schema.InitialName)

	f, ok := schema.FieldByInitialName("var_1544")
	require.True(t, ok)
	assert.Equal(t, "slot", f.Name)
	f, ok = schema.FieldByInitialName("name_74")
	require.True(t, ok)
	assert.Equal(t, "name_74", f.Name)

	assert.Equal(t, Owned("slot"), schema.ConstructorDefinition[0].FieldRef)
	assert.Equal(t, "slot", schema.WriteBody[0].(Scalar).Name)
	assert.Equal(t, "hotkeys", schema.WriteBody[3].(ArrayOfPrimitives).Name)
	assert.Equal(t, Conditional{FieldName: "extra"}, schema.WriteBody[4])
}

func TestRenameKeepsSuperSlots(t *testing.T) {
	schema, err := parseFixture(t, "class_88.as")
	require.NoError(t, err)

	schema.Rename("", map[string]string{"var_77": "speed"})

	assert.Equal(t, "class_88", schema.Name)
	assert.Equal(t, SuperSlot(0), schema.ConstructorDefinition[1].FieldRef)
	assert.Equal(t, Owned("speed"), schema.ConstructorDefinition[0].FieldRef)
	assert.Equal(t, SuperCall{}, schema.WriteBody[0])
}

func TestRenameTwiceUsesInitialNames(t *testing.T) {
	schema, err := parseFixture(t, "class_412.as")
	require.NoError(t, err)

	schema.Rename("ShipSettings", map[string]string{"var_1544": "slot"})
	schema.Rename("ShipSettingsRequest", map[string]string{"var_1544": "slotId", "slot": "ignored"})

	f, ok := schema.FieldByInitialName("var_1544")
	require.True(t, ok)
	assert.Equal(t, "slotId", f.Name)
	assert.Equal(t, Owned("slotId"), schema.ConstructorDefinition[0].FieldRef)
	assert.Equal(t, "slotId", schema.WriteBody[0].(Scalar).Name)
}
