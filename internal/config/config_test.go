package config

import (
	"testing"
	"time"

	"haloscope/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DRIVER", "DATABASE_URL", "STORE", "DATA_DIR", "PORT",
		"DEFAULT_FILTER", "HISTOGRAM_BINS", "SESSION_TTL", "PPROF_ENABLED", "PPROF_PORT", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "./test.db", cfg.Database.URL)
	assert.Equal(t, StoreSQL, cfg.Store.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, "where vmax > 10 and dist < 100", cfg.Explore.DefaultFilter)
	assert.Equal(t, 100, cfg.Explore.HistogramBins)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/halos?sslmode=disable")
	t.Setenv("STORE", "file")
	t.Setenv("DATA_DIR", "/srv/halos")
	t.Setenv("HISTOGRAM_BINS", "50")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.Equal(t, "/srv/halos", cfg.Store.DataDir)
	assert.Equal(t, 50, cfg.Explore.HistogramBins)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"driver", "DATABASE_DRIVER", "mysql"},
		{"store", "STORE", "s3"},
		{"bins", "HISTOGRAM_BINS", "-1"},
		{"ttl", "SESSION_TTL", "-5m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_FileStoreIgnoresDriver(t *testing.T) {
	t.Setenv("STORE", "file")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("DATABASE_DRIVER", "mysql")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}
