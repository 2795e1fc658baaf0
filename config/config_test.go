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
	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "Sheet1", cfg.Source.Sheet)
	assert.Equal(t, 10*time.Minute, cfg.Source.ReloadInterval)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, TOP_STOPS_LIMIT, cfg.Dashboard.TopStops)
	assert.Equal(t, TOP_FIVE_LIMIT, cfg.Dashboard.TopFive)
}

func TestLoad_Environment(t *testing.T) {
	// Arrange
	t.Setenv("OASA_SOURCE_LOCATION", "https://example.org/validations.csv")
	t.Setenv("OASA_REDIS_ADDR", "redis:6379")
	t.Setenv("OASA_DASHBOARD_TOP_STOPS", "20")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/validations.csv", cfg.SourceLocation())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.Dashboard.TopStops)
}

func TestLoad_FileOverridesEnvironment(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := "server:\n  addr: \":9090\"\nsource:\n  sheet: Validations\n  reload_interval: 5m\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	t.Setenv("OASA_SERVER_ADDR", ":7070")
	t.Setenv(CONFIG_FILE_ENV, file)

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "Validations", cfg.Source.Sheet)
	assert.Equal(t, 5*time.Minute, cfg.Source.ReloadInterval)
	// Untouched keys keep their env/default value.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(CONFIG_FILE_ENV, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()

	assert.Error(t, err)
}

func TestSourceLocation_RelativePath(t *testing.T) {
	t.Setenv("PROJECT_ROOT", "/srv/oasa")
	cfg := &Config{Source: SourceConfig{Location: "data/validations.xlsx"}}

	assert.Equal(t, "/srv/oasa/data/validations.xlsx", cfg.SourceLocation())
	assert.True(t, IsRemote("HTTPS://host/file.xlsx"))
	assert.False(t, IsRemote("/tmp/file.xlsx"))
}
