package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Pagination.PageSize)
	assert.Equal(t, "storage", cfg.Media.PublicPrefix)
	assert.Equal(t, int64(500048), cfg.Media.MaxUploadKB)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("MEDIA_ROOT", "/srv/media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 20, cfg.Pagination.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/srv/media", cfg.Media.Root)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: sqlite
  path: /tmp/estate.db
server:
  port: "9090"
pagination:
  page_size: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/estate.db?_foreign_keys=on", cfg.DB.GetDSN())
	assert.Equal(t, 10, cfg.Pagination.PageSize)
	assert.Equal(t, "7070", cfg.Server.Port, "environment overrides the file")
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero page size", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("PAGE_SIZE", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_GetDSN(t *testing.T) {
	c := Default().DB
	assert.Equal(t, "host=localhost port=5432 user=postgres password=password dbname=estate_service sslmode=disable", c.GetDSN())

	c.Driver = DriverMySQL
	c.Port = "3306"
	assert.Equal(t, "postgres:password@tcp(localhost:3306)/estate_service?charset=utf8mb4&parseTime=True&loc=Local", c.GetDSN())
}

func TestDBConfig_GormLogLevel(t *testing.T) {
	c := DBConfig{LogLevel: "silent"}
	assert.Equal(t, logger.Silent, c.GormLogLevel())
	c.LogLevel = "bogus"
	assert.Equal(t, logger.Info, c.GormLogLevel())
}
