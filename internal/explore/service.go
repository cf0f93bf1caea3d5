package explore

import (
	"context"
	"time"

	"haloscope/domain/halo"
	"haloscope/internal"
	"haloscope/internal/errors"
	"haloscope/internal/filter"
	"haloscope/internal/histogram"
	"haloscope/internal/profiling"
	"haloscope/ports"

	"golang.org/x/sync/errgroup"
)

// Snapshot holds both catalogs restricted by one filter
type Snapshot struct {
	Filter *filter.Filter
	Tables map[halo.Catalog]*halo.Table
}

// Table returns the snapshot's table for a catalog, or nil
func (s *Snapshot) Table(catalog halo.Catalog) *halo.Table {
	return s.Tables[catalog]
}

// Service implements the explorer operations over a halo repository
type Service struct {
	repo     ports.HaloRepository
	bins     int
	profiler *profiling.TableProfiler
	logger   *internal.Logger
}

// NewService creates an explorer; bins <= 0 uses the histogram default
func NewService(repo ports.HaloRepository, bins int, logger *internal.Logger) *Service {
	if bins <= 0 {
		bins = histogram.DefaultBins
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		repo:     repo,
		bins:     bins,
		profiler: profiling.NewTableProfiler(),
		logger:   logger.With("Explore"),
	}
}

// Bins returns the histogram bin count used for standard plots
func (s *Service) Bins() int {
	return s.bins
}

// Schema returns the columns shared by both catalogs in dmo order.
// A filter must only reference these since it is applied to both.
func (s *Service) Schema(ctx context.Context) ([]string, error) {
	dmo, err := s.repo.Columns(ctx, halo.CatalogDMO)
	if err != nil {
		return nil, err
	}
	disk, err := s.repo.Columns(ctx, halo.CatalogDisk)
	if err != nil {
		return nil, err
	}

	inDisk := make(map[string]bool, len(disk))
	for _, c := range disk {
		inDisk[c] = true
	}
	shared := make([]string, 0, len(dmo))
	for _, c := range dmo {
		if inDisk[c] {
			shared = append(shared, c)
		}
	}
	return shared, nil
}

// ParseFilter validates filter text against the shared schema
func (s *Service) ParseFilter(ctx context.Context, text string) (*filter.Filter, error) {
	columns, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Parse(text, columns)
}

// Load parses the filter once and queries both catalogs concurrently
func (s *Service) Load(ctx context.Context, text string) (*Snapshot, error) {
	f, err := s.ParseFilter(ctx, text)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	catalogs := halo.Catalogs()
	tables := make([]*halo.Table, len(catalogs))

	g, gctx := errgroup.WithContext(ctx)
	for i, catalog := range catalogs {
		g.Go(func() error {
			t, err := s.repo.Query(gctx, catalog, f)
			if err != nil {
				return errors.Wrapf(err, "failed to load %s", catalog)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("load %q failed: %v", f.String(), err)
		return nil, err
	}

	snap := &Snapshot{Filter: f, Tables: make(map[halo.Catalog]*halo.Table, len(catalogs))}
	for i, catalog := range catalogs {
		snap.Tables[catalog] = tables[i]
	}
	s.logger.Debug("loaded %q: dmo=%d disk=%d rows in %v", f.String(),
		snap.Tables[halo.CatalogDMO].Len(), snap.Tables[halo.CatalogDisk].Len(), time.Since(start))
	return snap, nil
}

// Query loads one catalog restricted by the filter text
func (s *Service) Query(ctx context.Context, catalog halo.Catalog, text string) (*halo.Table, error) {
	f, err := s.ParseFilter(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.repo.Query(ctx, catalog, f)
}

// Catalog loads a whole catalog
func (s *Service) Catalog(ctx context.Context, catalog halo.Catalog) (*halo.Table, error) {
	return s.repo.Query(ctx, catalog, filter.All())
}

// Count returns how many rows of a catalog the filter selects
func (s *Service) Count(ctx context.Context, catalog halo.Catalog, text string) (int, error) {
	f, err := s.ParseFilter(ctx, text)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, catalog, f)
}

// Options lists what a client may choose from
type Options struct {
	Columns  []string          `json:"columns"`
	Labels   map[string]string `json:"labels"`
	Plots    []string          `json:"plots"`
	Catalogs []string          `json:"catalogs"`
}

// Options returns the plottable columns of the dmo schema, the standard
// plot names and the catalogs
func (s *Service) Options(ctx context.Context) (*Options, error) {
	columns, err := s.repo.Columns(ctx, halo.CatalogDMO)
	if err != nil {
		return nil, err
	}
	plottable := halo.PlottableColumns(columns)
	labels := make(map[string]string, len(plottable))
	for _, c := range plottable {
		labels[c] = halo.Label(c)
	}

	opts := &Options{Columns: plottable, Labels: labels, Plots: histogram.StandardPlotNames()}
	for _, c := range halo.Catalogs() {
		opts.Catalogs = append(opts.Catalogs, string(c))
	}
	return opts, nil
}

// CatalogSummary holds the column summaries of one catalog
type CatalogSummary struct {
	Catalog string                    `json:"catalog"`
	Rows    int                       `json:"rows"`
	Columns []profiling.ColumnSummary `json:"columns"`
}

// Summary profiles every catalog in the snapshot
func (s *Service) Summary(snap *Snapshot) ([]CatalogSummary, error) {
	var out []CatalogSummary
	for _, catalog := range halo.Catalogs() {
		t := snap.Table(catalog)
		if t == nil {
			continue
		}
		columns, err := s.profiler.ProfileTable(t)
		if err != nil {
			return nil, err
		}
		out = append(out, CatalogSummary{Catalog: string(catalog), Rows: t.Len(), Columns: columns})
	}
	return out, nil
}
