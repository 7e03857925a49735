package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("tilde prefix", func(t *testing.T) {
		assert.Equal(t, filepath.Join(home, "data", "ledger.db"), ExpandPath("~/data/ledger.db"))
	})

	t.Run("bare tilde", func(t *testing.T) {
		assert.Equal(t, home, ExpandPath("~"))
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv("RUPEE_TEST_DIR", "/tmp/rupee")
		assert.Equal(t, "/tmp/rupee/ledger.db", ExpandPath("$RUPEE_TEST_DIR/ledger.db"))
	})

	t.Run("plain path unchanged", func(t *testing.T) {
		assert.Equal(t, "/var/lib/rupee.db", ExpandPath("/var/lib/rupee.db"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ExpandPath(""))
	})
}
