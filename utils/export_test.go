package utils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadSchemas(t *testing.T) {
	dir := copyFixtures(t, t.TempDir(), "class_412.as", "class_88.as", "class_95.as")
	batch, err := LoadAndParseSources(context.Background(), testConfig(dir), discardLogger())
	require.NoError(t, err)
	schemas := batch.Schemas()

	for _, name := range []string{"packets.json", "packets.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)
			require.NoError(t, WriteSchemas(path, FormatForPath(path, FormatJSON), schemas))

			back, err := ReadSchemas(path)
			require.NoError(t, err)
			assert.Equal(t, schemas, back)
		})
	}
}

func TestWriteSchemasJSONKeys(t *testing.T) {
	dir := copyFixtures(t, t.TempDir(), "class_412.as")
	batch, err := LoadAndParseSources(context.Background(), testConfig(dir), discardLogger())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "packets.json")
	require.NoError(t, WriteSchemas(path, FormatJSON, batch.Schemas()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "["))
	for _, key := range []string{`"id"`, `"initialName"`, `"constructorDefinition"`, `"writeBody"`, `"shiftOperationFromClientToServer"`, `"submodule"`} {
		assert.Contains(t, out, key)
	}
}

func TestWriteSchemasEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packets.json")
	require.NoError(t, WriteSchemas(path, FormatJSON, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteSchemasUnknownFormat(t *testing.T) {
	err := WriteSchemas(filepath.Join(t.TempDir(), "packets.xml"), "xml", nil)
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("a/b.yml", FormatJSON))
	assert.Equal(t, FormatYAML, FormatForPath("a/b.YAML", FormatJSON))
	assert.Equal(t, FormatJSON, FormatForPath("a/b.json", FormatYAML))
	assert.Equal(t, FormatYAML, FormatForPath("a/b", FormatYAML))
}
