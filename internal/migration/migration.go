package migration

import (
	"context"
	"fmt"
	"strings"

	"datacatalog/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Dialect is the SQL flavour of a catalog database
type Dialect string

const (
	DialectPostgres  Dialect = "postgres"
	DialectMySQL     Dialect = "mysql"
	DialectSQLServer Dialect = "sqlserver"
	DialectSQLite    Dialect = "sqlite"
)

// DialectFor maps a database/sql driver name to its dialect
func DialectFor(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "postgres", "pgx":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlserver", "mssql":
		return DialectSQLServer, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	}
	return "", errors.ConfigInvalid(fmt.Sprintf("unsupported database driver: %s", driverName))
}

// columnTypes are the per-dialect column types used by the catalog tables
type columnTypes struct {
	id        string
	short     string
	long      string
	boolean   string
	float     string
	integer   string
	timestamp string
}

var dialectTypes = map[Dialect]columnTypes{
	DialectPostgres:  {"VARCHAR(36)", "VARCHAR(255)", "TEXT", "BOOLEAN", "DOUBLE PRECISION", "INTEGER", "TIMESTAMPTZ"},
	DialectMySQL:     {"VARCHAR(36)", "VARCHAR(255)", "LONGTEXT", "BOOLEAN", "DOUBLE", "INT", "DATETIME(6)"},
	DialectSQLServer: {"NVARCHAR(36)", "NVARCHAR(255)", "NVARCHAR(MAX)", "BIT", "FLOAT", "INT", "DATETIME2"},
	DialectSQLite:    {"TEXT", "TEXT", "TEXT", "BOOLEAN", "REAL", "INTEGER", "TIMESTAMP"},
}

// MigrationRunner creates the catalog schema
type MigrationRunner struct {
	dialect Dialect
	version string
}

// NewRunner creates a migration runner for dialect
func NewRunner(dialect Dialect) *MigrationRunner {
	return &MigrationRunner{
		dialect: dialect,
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run creates the asset and field tables and their index. It is safe to run repeatedly.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	statements, err := r.Statements()
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.DatabaseError("failed to migrate catalog schema", err)
		}
	}
	return nil
}

// Statements returns the DDL executed by Run, in order
func (r *MigrationRunner) Statements() ([]string, error) {
	types, ok := dialectTypes[r.dialect]
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported dialect: %s", r.dialect))
	}

	assets := fmt.Sprintf(`CREATE TABLE data_assets (
			id %[1]s PRIMARY KEY,
			name %[2]s NOT NULL,
			description %[3]s,
			source_system %[2]s NOT NULL,
			source_location %[3]s,
			schema_info %[3]s,
			metadata %[3]s,
			tags %[3]s,
			data_quality_score %[5]s NOT NULL DEFAULT 0,
			is_sensitive %[4]s NOT NULL,
			is_public %[4]s NOT NULL,
			access_level %[2]s NOT NULL,
			created_at %[6]s NOT NULL
		)`, types.id, types.short, types.long, types.boolean, types.float, types.timestamp)

	fieldIndex := ""
	if r.dialect == DialectMySQL {
		fieldIndex = ",\n\t\t\tINDEX idx_data_fields_asset (asset_id, ordinal)"
	}
	fields := fmt.Sprintf(`CREATE TABLE data_fields (
			id %[1]s PRIMARY KEY,
			asset_id %[1]s NOT NULL REFERENCES data_assets(id),
			ordinal %[5]s NOT NULL,
			sheet_name %[2]s NOT NULL,
			field_name %[2]s NOT NULL,
			data_type %[2]s NOT NULL,
			is_nullable %[3]s NOT NULL,
			is_unique %[3]s NOT NULL,
			sensitivity_level %[2]s NOT NULL,
			contains_pii %[3]s NOT NULL,
			contains_phi %[3]s NOT NULL,
			contains_pci %[3]s NOT NULL,
			created_at %[4]s NOT NULL%[6]s
		)`, types.id, types.short, types.boolean, types.timestamp, types.integer, fieldIndex)

	switch r.dialect {
	case DialectSQLServer:
		return []string{
			"IF OBJECT_ID(N'data_assets', N'U') IS NULL " + assets,
			"IF OBJECT_ID(N'data_fields', N'U') IS NULL " + fields,
			`IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = 'idx_data_fields_asset')
			CREATE INDEX idx_data_fields_asset ON data_fields (asset_id, ordinal)`,
		}, nil
	case DialectMySQL:
		return []string{
			ifNotExists(assets),
			ifNotExists(fields),
		}, nil
	default:
		return []string{
			ifNotExists(assets),
			ifNotExists(fields),
			"CREATE INDEX IF NOT EXISTS idx_data_fields_asset ON data_fields (asset_id, ordinal)",
		}, nil
	}
}

func ifNotExists(createTable string) string {
	return strings.Replace(createTable, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1)
}
