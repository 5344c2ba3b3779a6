package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("numeric overrides", func(t *testing.T) {
		t.Setenv("RESIDUE_MODULUS", "13")
		t.Setenv("RESIDUE_TARGET", "-1")
		t.Setenv("RESIDUE_WORKERS", "8")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, int64(13), cfg.Automaton.Modulus)
		assert.Equal(t, int64(-1), cfg.Automaton.Target)
		assert.Equal(t, 8, cfg.Batch.Workers)
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("RESIDUE_LOG_LEVEL", "debug")

		cfg := &Config{}
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("unset leaves config alone", func(t *testing.T) {
		t.Setenv("RESIDUE_MODULUS", "")
		t.Setenv("RESIDUE_WORKERS", "")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, int64(10), cfg.Automaton.Modulus)
		assert.Equal(t, 4, cfg.Batch.Workers)
	})

	t.Run("malformed modulus", func(t *testing.T) {
		t.Setenv("RESIDUE_MODULUS", "ten")

		cfg := DefaultConfig()
		err := cfg.applyEnvOverrides()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RESIDUE_MODULUS")
	})

	t.Run("load surfaces malformed override", func(t *testing.T) {
		t.Setenv("RESIDUE_WORKERS", "many")

		_, err := Load(t.TempDir() + "/none.yaml")
		assert.Error(t, err)
	})
}
