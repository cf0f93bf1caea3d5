package ports

import (
	"context"

	"haloscope/domain/halo"
	"haloscope/internal/filter"
)

// HaloRepository defines read access to the halo catalogs
type HaloRepository interface {
	// Columns returns the catalog schema in table order
	Columns(ctx context.Context, catalog halo.Catalog) ([]string, error)

	// Query loads the rows selected by the filter, projected onto every column
	Query(ctx context.Context, catalog halo.Catalog, f *filter.Filter) (*halo.Table, error)

	// Count returns how many rows the filter selects, ignoring its limit
	Count(ctx context.Context, catalog halo.Catalog, f *filter.Filter) (int, error)
}

// CatalogWriter replaces a catalog's contents wholesale
type CatalogWriter interface {
	Replace(ctx context.Context, catalog halo.Catalog, table *halo.Table) error
}

// HaloStore is a repository that can also be loaded
type HaloStore interface {
	HaloRepository
	CatalogWriter
}
