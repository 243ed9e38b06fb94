package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "veridoc", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 384, cfg.Index.Dimension)
	assert.Equal(t, 512, cfg.Index.ChunkSize)
	assert.Equal(t, 50, cfg.Index.ChunkOverlap)
	assert.Equal(t, 3, cfg.Agent.MaxRetries)
	assert.InDelta(t, 0.7, cfg.Agent.ConfidenceThreshold, 1e-9)
	assert.InDelta(t, 0.6, cfg.Agent.HallucinationThreshold, 1e-9)
	assert.Equal(t, int64(50<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 300, cfg.Redis.AnswerTTLSeconds)
	assert.Equal(t, "qa.interaction.persist", cfg.RabbitMQ.InteractionPersistQueue)
}

func TestLoadFromTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
name = "veridoc-test"
port = 9090

[index]
dimension = 768

[agent]
confidence_threshold = 0.85
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "veridoc-test", cfg.App.Name)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 768, cfg.Index.Dimension)
	assert.InDelta(t, 0.85, cfg.Agent.ConfidenceThreshold, 1e-9)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestEnvOverridesFileAndDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("APP_PORT", "7070")
	t.Setenv("LLM_PRIMARY_MODEL", "test/model")
	t.Setenv("INDEX_DIMENSION", "128")
	t.Setenv("AGENT_CONFIDENCE_THRESHOLD", "0.9")
	t.Setenv("STORAGE_MAX_UPLOAD_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "test/model", cfg.LLM.PrimaryModel)
	assert.Equal(t, 128, cfg.Index.Dimension)
	assert.InDelta(t, 0.9, cfg.Agent.ConfidenceThreshold, 1e-9)
	assert.Equal(t, int64(1<<20), cfg.Storage.MaxUploadBytes)
}

func TestEnvOverrideIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestHTTPAddrAndMySQLDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, "root:@tcp(127.0.0.1:3306)/veridoc?parseTime=true&loc=Local&charset=utf8mb4", cfg.MySQLDSN())
}
