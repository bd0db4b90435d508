package demo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
)

// TestLoadSettings_MissingFileUsesDefaults lets the demo start without a config file.
func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	settings, err := loadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), settings)
}

// TestLoadSettings_ReadsFile honours an existing file.
func TestLoadSettings_ReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)

	cfg := config.Default()
	cfg.Lock.Target = lock.TargetCurrent
	require.NoError(t, config.Save(path, cfg))

	settings, err := loadSettings(path)
	require.NoError(t, err)
	require.Equal(t, lock.TargetCurrent, settings.Lock.Target)
}
