package container

import (
	"context"
	"fmt"
	"log"

	"haloscope/adapters/excel"
	"haloscope/adapters/memstore"
	"haloscope/adapters/sqlstore"
	"haloscope/domain/halo"
	"haloscope/internal"
	"haloscope/internal/config"
	"haloscope/internal/errors"
	"haloscope/internal/explore"
	"haloscope/internal/migration"
	"haloscope/internal/session"
	"haloscope/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	HaloStore ports.HaloStore

	// Explorer components
	Explorer *explore.Service
	Sessions *session.Store
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Logger: internal.DefaultLogger,
	}, nil
}

// InitWithDatabase initializes the explorer over an open database
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	return c.InitWithStore(ctx, sqlstore.NewHaloRepository(db))
}

// InitWithFiles loads dmo and disk catalog files from dir into memory
func (c *Container) InitWithFiles(ctx context.Context, dir string) error {
	store := memstore.New()
	for _, catalog := range halo.Catalogs() {
		path, err := excel.CatalogPath(dir, catalog)
		if err != nil {
			return err
		}
		table, err := excel.NewDataReader(path).ReadTable(catalog)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", catalog, err)
		}
		if err := store.Replace(ctx, catalog, table); err != nil {
			return err
		}
	}
	return c.InitWithStore(ctx, store)
}

// Init opens the configured catalog backend: the catalog files for the file
// store, otherwise the database with its schema migrated
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Store.Backend == config.StoreFile {
		log.Printf("Loading catalogs from %s", c.Config.Store.DataDir)
		return c.InitWithFiles(ctx, c.Config.Store.DataDir)
	}

	db, err := sqlstore.Open(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return err
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("database migration failed: %w", err)
	}
	return c.InitWithDatabase(ctx, db)
}

// InitWithStore wires the explorer components over a catalog store. The
// configured default filter is parsed against the store's schema so a bad
// DEFAULT_FILTER fails startup instead of every fresh session.
func (c *Container) InitWithStore(ctx context.Context, store ports.HaloStore) error {
	if store == nil {
		return fmt.Errorf("halo store cannot be nil")
	}
	c.HaloStore = store

	explorer := explore.NewService(store, c.Config.Explore.HistogramBins, c.Logger)
	view := explore.DefaultView(c.Config.Explore.DefaultFilter)
	if _, err := explorer.ParseFilter(ctx, view.Filter); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid,
			errors.Wrapf(err, "DEFAULT_FILTER %q is invalid", view.Filter))
	}

	c.Explorer = explorer
	c.Sessions = session.NewStore(c.Config.Server.SessionTTL, view)

	log.Printf("Container initialized successfully (store=%s, bins=%d)", c.Config.Store.Backend, c.Explorer.Bins())
	return nil
}

// Close releases the database connection if one was opened
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
