package halo

import (
	"fmt"
	"strings"
)

// Catalog identifies one of the two halo catalogs held in the store
type Catalog string

const (
	CatalogDMO  Catalog = "dmo"  // dark-matter-only run
	CatalogDisk Catalog = "disk" // run with an embedded galactic disk potential
)

// Catalogs returns every catalog in display order
func Catalogs() []Catalog {
	return []Catalog{CatalogDMO, CatalogDisk}
}

// ParseCatalog resolves a user-supplied catalog name
func ParseCatalog(s string) (Catalog, error) {
	switch Catalog(strings.ToLower(strings.TrimSpace(s))) {
	case CatalogDMO:
		return CatalogDMO, nil
	case CatalogDisk:
		return CatalogDisk, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCatalog, s)
}

// Table returns the store table name backing the catalog
func (c Catalog) Table() string {
	return string(c)
}

// DisplayName is the legend label used on plots
func (c Catalog) DisplayName() string {
	switch c {
	case CatalogDMO:
		return "DMO"
	case CatalogDisk:
		return "Disk"
	}
	return string(c)
}

// Kind is the storage kind of a column
type Kind int

const (
	KindFloat Kind = iota
	KindInteger
)

func (k Kind) String() string {
	if k == KindInteger {
		return "integer"
	}
	return "float"
}

// Column names with special meaning
const (
	ColumnIndex  = "index"
	ColumnHostID = "host_id"
	ColumnID     = "id"
)

// CanonicalColumns is the shared catalog schema in download order
var CanonicalColumns = []string{
	"index", "host_id", "id", "mvir", "rs", "rvir", "vmax", "vx", "vy", "vz",
	"x", "y", "z", "vpeak", "scale_vpeak", "dist", "infall", "peri", "vr", "vtan",
}

// KindOf returns the canonical storage kind for a column name
func KindOf(column string) Kind {
	switch column {
	case ColumnIndex, ColumnHostID, ColumnID:
		return KindInteger
	}
	return KindFloat
}
