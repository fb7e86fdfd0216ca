package rates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCustomTable(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "custom_table.yaml"))

	require.NoError(t, err, "Should load a well-formed table file")
	assert.Len(t, table.Periods(), 2)
	assert.Equal(t, day(2000, time.January, 1), table.First())
	assert.True(t, table.Current().OpenEnded())
	assert.Equal(t, "17.2", table.Current().Rates.Total.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "does_not_exist.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadRejectsInvalidTable(t *testing.T) {
	// A table whose total disagrees with its components must be refused at
	// load time, not at pricing time.
	bad := `periods:
  - start: 2000-01-01
    rates:
      csg: 8.2
      crds: 0.5
      total: 99
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "components sum to")
}
