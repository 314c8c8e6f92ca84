package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatchReport(t *testing.T) {
	dir := copyFixtures(t, t.TempDir(), "class_412.as", "class_1.as")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "class_999.as"), []byte(brokenUnit), 0644))
	batch, err := LoadAndParseSources(context.Background(), testConfig(dir), discardLogger())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "parse.txt")
	require.NoError(t, GenerateBatchReport(batch, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(data)
	assert.Contains(t, report, "unknown type (1)")
	assert.Contains(t, report, "class_999.as:")
	assert.Contains(t, report, "line 7: param1.writeLong(this.var_1);")
	assert.Contains(t, report, "skipped (1)")
	assert.Contains(t, report, "Total: 3 sources, 1 parsed, 1 skipped, 1 failed")
}

func TestGenerateMatchReport(t *testing.T) {
	matches := []PacketMatch{
		{FreshName: "class_9", KnownName: "Logout", ID: 4, Method: MatchByStructure, MatchPercent: 100},
		{FreshName: "class_2", KnownName: "Login", ID: 1, Method: MatchByConstants, MatchPercent: 100},
		{FreshName: "class_1", KnownName: "Ping", ID: 2, Method: MatchByStructure, MatchPercent: 100},
	}
	path := filepath.Join(t.TempDir(), "matches.txt")

	require.NoError(t, GenerateMatchReport(matches, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(data)
	assert.Contains(t, report, "Method: constants")
	assert.Contains(t, report, "class_1 (id 2) -> Ping (confidence: 100%)\nclass_9 (id 4) -> Logout")
	assert.Contains(t, report, "Total matches: 3 across 2 methods")
}
