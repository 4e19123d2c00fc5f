// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsBool(t *testing.T) {
	assert.True(t, getEnvAsBool("UNSET_BOOL_VAR", true))
	assert.False(t, getEnvAsBool("UNSET_BOOL_VAR", false))

	t.Setenv("SET_BOOL_VAR", "false")
	assert.False(t, getEnvAsBool("SET_BOOL_VAR", true))

	t.Setenv("SET_BOOL_VAR", "TRUE")
	assert.True(t, getEnvAsBool("SET_BOOL_VAR", false))

	// Unparseable values fall back to the default.
	t.Setenv("SET_BOOL_VAR", "maybe")
	assert.True(t, getEnvAsBool("SET_BOOL_VAR", true))
}

func TestLoadDefaultsSeedingOn(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)
	assert.True(t, cfg.Database.AutoSeed)

	t.Setenv("DB_AUTO_SEED", "false")
	cfg, err = Load()
	assert.NoError(t, err)
	assert.False(t, cfg.Database.AutoSeed)
}
