package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPatternOverrides(t *testing.T) {
	origAmount := AmountPatterns
	origID := IDPatterns
	t.Cleanup(func() {
		AmountPatterns = origAmount
		IDPatterns = origID
	})

	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `
amount:
  - revenue
  - turnover
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, LoadPatternOverrides(path))

	assert.Equal(t, []string{"REVENUE", "TURNOVER"}, AmountPatterns)
	// Lists absent from the file keep their defaults.
	assert.Equal(t, origID, IDPatterns)
}

func TestLoadPatternOverrides_MissingFile(t *testing.T) {
	err := LoadPatternOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadPatternOverrides_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("amount: {not: [a list"), 0644))
	assert.Error(t, LoadPatternOverrides(path))
}
