package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"haloscope/adapters/export"
	"haloscope/domain/halo"
	"haloscope/internal/config"
	"haloscope/internal/errors"
	"haloscope/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Store:   config.StoreConfig{Backend: config.StoreFile},
		Server:  config.ServerConfig{SessionTTL: time.Hour},
		Explore: config.ExploreConfig{DefaultFilter: "vmax > 5", HistogramBins: 20},
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitWithFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := synth.DefaultConfig()
	cfg.SubhalosPerHost = 30
	cats, err := synth.Generate(cfg)
	require.NoError(t, err)
	require.NoError(t, export.WriteFile(filepath.Join(dir, "dmo.csv"), cats.DMO))
	require.NoError(t, export.WriteFile(filepath.Join(dir, "disk.xlsx"), cats.Disk))

	c, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.InitWithFiles(context.Background(), dir))

	n, err := c.Explorer.Count(context.Background(), halo.CatalogDMO, "")
	require.NoError(t, err)
	assert.Equal(t, cats.DMO.Len(), n)

	n, err = c.Explorer.Count(context.Background(), halo.CatalogDisk, "")
	require.NoError(t, err)
	assert.Equal(t, cats.Disk.Len(), n)

	_, view := c.Sessions.Get("")
	assert.Equal(t, "vmax > 5", view.Filter)
	assert.Equal(t, 20, c.Explorer.Bins())
	assert.NoError(t, c.Close())
}

func TestInitWithFiles_Missing(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	assert.Error(t, c.InitWithFiles(context.Background(), t.TempDir()))
}

func TestInit_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = config.StoreSQL
	cfg.Database = config.DatabaseConfig{Driver: "sqlite3", URL: filepath.Join(t.TempDir(), "halos.db")}

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	defer c.Close()

	require.NotNil(t, c.DB)
	n, err := c.Explorer.Count(context.Background(), halo.CatalogDMO, "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInit_RejectsInvalidDefaultFilter(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = config.StoreSQL
	cfg.Database = config.DatabaseConfig{Driver: "sqlite3", URL: filepath.Join(t.TempDir(), "halos.db")}
	cfg.Explore.DefaultFilter = "where mass > 1"

	c, err := New(cfg)
	require.NoError(t, err)
	err = c.Init(context.Background())
	defer c.Close()

	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), `unknown column "mass"`)
	assert.Nil(t, c.Sessions)
}
