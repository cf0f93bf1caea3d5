package sqlstore

import (
	"context"
	"time"

	"haloscope/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the store and verifies the connection
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, errors.ConfigInvalid("unsupported database driver: " + driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	if driver == "sqlite3" {
		// sqlite serializes writers; one connection keeps catalog loads from hitting SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}
	return db, nil
}
