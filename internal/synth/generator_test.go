package synth

import (
	"testing"

	"haloscope/domain/halo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Shape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hosts = 2
	cfg.SubhalosPerHost = 100

	cats, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, halo.CatalogDMO, cats.DMO.Catalog)
	assert.Equal(t, halo.CatalogDisk, cats.Disk.Catalog)
	assert.Equal(t, halo.CanonicalColumns, cats.DMO.Columns())
	assert.Equal(t, 2*(100+1), cats.DMO.Len())
	assert.LessOrEqual(t, cats.Disk.Len(), cats.DMO.Len())
	assert.Equal(t, []string{"1", "2"}, cats.DMO.UniqueHostIDs())

	index, err := cats.Disk.Column(halo.ColumnIndex)
	require.NoError(t, err)
	for i, v := range index {
		assert.Equal(t, float64(i), v)
	}
}

func TestGenerate_PhysicalRanges(t *testing.T) {
	cats, err := Generate(DefaultConfig())
	require.NoError(t, err)
	tbl := cats.DMO

	for r := 0; r < tbl.Len(); r++ {
		dist, _ := tbl.Value(r, "dist")
		peri, _ := tbl.Value(r, "peri")
		infall, _ := tbl.Value(r, "infall")
		vmax, _ := tbl.Value(r, "vmax")
		vpeak, _ := tbl.Value(r, "vpeak")

		assert.GreaterOrEqual(t, dist, 0.0)
		assert.LessOrEqual(t, dist, 300.0)
		assert.LessOrEqual(t, peri, dist)
		assert.GreaterOrEqual(t, infall, 0.0)
		assert.LessOrEqual(t, infall, ageOfUniverse)
		assert.Greater(t, vmax, 0.0)
		assert.GreaterOrEqual(t, vpeak, vmax)
	}
}

func TestGenerate_DiskDisruptsInnerSubhalos(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisruptionRate = 1

	cats, err := Generate(cfg)
	require.NoError(t, err)

	inner, err := cats.Disk.Where("peri", "dist", func(d float64) bool { return d > 0 })
	require.NoError(t, err)
	for _, p := range inner {
		assert.GreaterOrEqual(t, p, cfg.DiskRadius)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubhalosPerHost = 20

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	for r := 0; r < a.DMO.Len(); r++ {
		assert.Equal(t, a.DMO.Row(r), b.DMO.Row(r))
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no hosts", func(c *Config) { c.Hosts = 0 }},
		{"negative subhalos", func(c *Config) { c.SubhalosPerHost = -1 }},
		{"disruption rate", func(c *Config) { c.DisruptionRate = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg)
			assert.Error(t, err)
		})
	}
}

func TestCatalogs_Tables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubhalosPerHost = 10
	cats, err := Generate(cfg)
	require.NoError(t, err)

	tables := cats.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, halo.CatalogDMO, tables[0].Catalog)
	assert.Equal(t, halo.CatalogDisk, tables[1].Catalog)
}
