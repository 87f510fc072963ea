package sqlstore

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/migration"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know by default
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the catalog database. driver is one of postgres, pgx,
// mysql, sqlserver or sqlite. When migrate is set the catalog schema is created.
func Open(ctx context.Context, driver, dsn string, migrate bool) (*sqlx.DB, error) {
	dialect, err := migration.DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to catalog database", err)
	}
	if dialect == migration.DialectSQLite {
		// one connection keeps an in-memory database alive and serializes writers
		db.SetMaxOpenConns(1)
	}

	if migrate {
		if err := migration.NewRunner(dialect).Run(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
