package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "DB_MAX_OPEN_CONNS", "HTTP_ADDRESS", "HTTP_READ_TIMEOUT", "GRPC_ADDRESS", "LOG_LEVEL", "LOG_FORMAT"} {
		// t.Setenv registers restoration of the previous value.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "app.db", cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, ":50051", cfg.GRPC.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_DSN", "lib:secret@tcp(db:3306)/kpz")
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("HTTP_READ_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mssql")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestLoad_RejectsBadLogSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	assert.ErrorContains(t, err, "LOG_LEVEL")

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = Load()
	assert.ErrorContains(t, err, "LOG_FORMAT")
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestString_MasksCredentials(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "postgres", DSN: "postgres://lib:secret@db:5432/kpz"}}
	s := cfg.String()
	assert.NotContains(t, s, "secret")
	assert.Contains(t, s, "@db:5432/kpz")

	cfg.Database.DSN = "host=db password=secret"
	assert.NotContains(t, cfg.String(), "secret")

	cfg.Database = DatabaseConfig{Driver: "sqlite3", DSN: "library.db"}
	assert.Contains(t, cfg.String(), "library.db")
}
