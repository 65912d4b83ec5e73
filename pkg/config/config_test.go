package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "master-secret")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "seating.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 50, cfg.Optimizer.MaxPasses)
	assert.Equal(t, 2*time.Second, cfg.Optimizer.TimeBudget())
	assert.Equal(t, 10*time.Minute, cfg.Optimizer.CacheTTL)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/seating")
	t.Setenv("SEATING_OPTIMIZER_MAX_PASSES", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "postgres://localhost/seating", cfg.Database.URL)
	assert.Equal(t, 7, cfg.Optimizer.MaxPasses)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seating.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: test\noptimizer:\n  time_budget_ms: 500\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.Optimizer.TimeBudget())
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:    ServerConfig{Port: 8000, Mode: "debug"},
		Optimizer: OptimizerConfig{MaxPasses: 1, TimeBudgetMs: 1},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Server.Port = 70000
	assert.Error(t, bad.Validate())

	bad = base
	bad.Server.Mode = "release"
	assert.ErrorContains(t, bad.Validate(), "API_MASTER_SECRET")

	bad.Auth.APIMasterSecret = "master"
	assert.ErrorContains(t, bad.Validate(), "JWT_SECRET")

	bad.Auth.JWTSecret = "jwt"
	assert.NoError(t, bad.Validate())

	bad = base
	bad.Optimizer.MaxPasses = 0
	assert.Error(t, bad.Validate())
}
