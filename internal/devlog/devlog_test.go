package devlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	root := t.TempDir()
	day := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	created, err := Create(root, day)
	require.NoError(t, err)
	require.Len(t, created, 2)

	data, err := os.ReadFile(filepath.Join(root, "2025-03-04", ChangeLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Change Log - March 4, 2025")
	assert.NotContains(t, string(data), "{{displayDate}}")

	data, err = os.ReadFile(filepath.Join(root, "2025-03-04", DeveloperLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Developer Log - March 4, 2025")
}

func TestCreateDoesNotOverwrite(t *testing.T) {
	root := t.TempDir()
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	dir := filepath.Join(root, "2025-03-04")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChangeLogFile), []byte("existing"), 0o644))

	created, err := Create(root, day)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, filepath.Join(dir, DeveloperLogFile), created[0])

	data, err := os.ReadFile(filepath.Join(dir, ChangeLogFile))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}
