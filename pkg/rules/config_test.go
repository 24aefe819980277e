package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
ProductMergeRules:
  - rule: split units
    command: AutoMergeIOProducts
  - rule: nce family
    command: AutoMergeByPattern
    pattern: "^NCE\\d{3}"
    cross: [CMD211]
  - rule: bundles
    command: CombineProducts
    packages:
      - products: [CMD211, CRG14CL1N]
      - products: [LAMP1, LAMP2, LAMP3]
`

func TestParse(t *testing.T) {
	parsed, err := Parse([]byte(sampleRules))
	require.NoError(t, err)
	require.Len(t, parsed, 4, "each package list becomes its own rule")

	assert.Equal(t, AutoMergeIOProducts, parsed[0].Command)

	assert.Equal(t, AutoMergeByPattern, parsed[1].Command)
	assert.Equal(t, `^NCE\d{3}`, parsed[1].Pattern)
	assert.Equal(t, []string{"CMD211"}, parsed[1].Cross)

	assert.Equal(t, CombineProducts, parsed[2].Command)
	assert.Equal(t, []string{"CMD211", "CRG14CL1N"}, parsed[2].Products)
	assert.Equal(t, []string{"LAMP1", "LAMP2", "LAMP3"}, parsed[3].Products)
}

func TestParse_InvalidCommand(t *testing.T) {
	_, err := Parse([]byte(`
ProductMergeRules:
  - rule: bad
    command: MergeEverything
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MergeEverything")
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("ProductMergeRules: ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge_rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o644))

	parsed, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, parsed, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
