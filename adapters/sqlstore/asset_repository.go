package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"datacatalog/domain/catalog"
	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/logger"
	"datacatalog/internal/migration"
	"datacatalog/ports"
)

const assetColumns = `id, name, description, source_system, source_location, schema_info, metadata, tags,
	data_quality_score, is_sensitive, is_public, access_level, created_at`

const fieldColumns = `id, asset_id, ordinal, sheet_name, field_name, data_type, is_nullable, is_unique,
	sensitivity_level, contains_pii, contains_phi, contains_pci, created_at`

// assetRepository implements ports.AssetRepository on any supported SQL dialect
type assetRepository struct {
	db      *sqlx.DB
	dialect migration.Dialect
	log     zerolog.Logger
}

// NewAssetRepository creates a repository over an open catalog database
func NewAssetRepository(db *sqlx.DB) (ports.AssetRepository, error) {
	dialect, err := migration.DialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &assetRepository{
		db:      db,
		dialect: dialect,
		log:     logger.Component("AssetRepository"),
	}, nil
}

// CreateAsset inserts the asset and its fields in one transaction
func (r *assetRepository) CreateAsset(ctx context.Context, asset *catalog.AssetRecord) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	row, err := toAssetRow(asset, uuid.NewString(), now)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode asset")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO data_assets (`+assetColumns+`) VALUES (
			:id, :name, :description, :source_system, :source_location, :schema_info, :metadata, :tags,
			:data_quality_score, :is_sensitive, :is_public, :access_level, :created_at)`, row); err != nil {
		return apperrors.DatabaseError("failed to create asset", err)
	}

	fields := make([]catalog.DataField, len(asset.Fields))
	for i, field := range asset.Fields {
		field.ID = uuid.NewString()
		field.AssetID = row.ID
		field.CreatedAt = now
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO data_fields (`+fieldColumns+`) VALUES (
				:id, :asset_id, :ordinal, :sheet_name, :field_name, :data_type, :is_nullable, :is_unique,
				:sensitivity_level, :contains_pii, :contains_phi, :contains_pci, :created_at)`, toFieldRow(field, i)); err != nil {
			return apperrors.DatabaseError("failed to create field "+field.FieldName, err)
		}
		fields[i] = field
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit asset", err)
	}

	asset.ID = row.ID
	asset.CreatedAt = now
	asset.Fields = fields
	r.log.Debug().Str("asset_id", asset.ID).Int("fields", len(fields)).Msg("asset stored")
	return nil
}

// GetAsset returns the asset with its fields
func (r *assetRepository) GetAsset(ctx context.Context, id string) (*catalog.AssetRecord, error) {
	var row assetRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+assetColumns+` FROM data_assets WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("asset " + id)
	}
	if err != nil {
		return nil, apperrors.DatabaseError("failed to get asset", err)
	}

	asset, err := row.toRecord()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode asset")
	}
	if asset.Fields, err = r.ListFields(ctx, id); err != nil {
		return nil, err
	}
	return asset, nil
}

// ListAssets returns assets newest first, without their fields
func (r *assetRepository) ListAssets(ctx context.Context, limit, offset int) ([]catalog.AssetRecord, error) {
	var rows []assetRow
	query, args := r.paginate(`SELECT `+assetColumns+` FROM data_assets ORDER BY created_at DESC, id`, limit, offset)
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, apperrors.DatabaseError("failed to list assets", err)
	}

	assets := make([]catalog.AssetRecord, 0, len(rows))
	for _, row := range rows {
		asset, err := row.toRecord()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decode asset")
		}
		assets = append(assets, *asset)
	}
	return assets, nil
}

// ListFields returns the fields of an asset in column order
func (r *assetRepository) ListFields(ctx context.Context, assetID string) ([]catalog.DataField, error) {
	var rows []fieldRow
	query := r.db.Rebind(`SELECT ` + fieldColumns + ` FROM data_fields WHERE asset_id = ? ORDER BY ordinal`)
	if err := r.db.SelectContext(ctx, &rows, query, assetID); err != nil {
		return nil, apperrors.DatabaseError("failed to list fields", err)
	}

	fields := make([]catalog.DataField, len(rows))
	for i, row := range rows {
		fields[i] = row.toField()
	}
	return fields, nil
}

// paginate appends the dialect's limit clause; the query must already be ordered
func (r *assetRepository) paginate(query string, limit, offset int) (string, []interface{}) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if r.dialect == migration.DialectSQLServer {
		return query + ` OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`, []interface{}{offset, limit}
	}
	return query + ` LIMIT ? OFFSET ?`, []interface{}{limit, offset}
}

func toAssetRow(asset *catalog.AssetRecord, id string, createdAt time.Time) (assetRow, error) {
	schema, err := json.Marshal(asset.SchemaInfo)
	if err != nil {
		return assetRow{}, err
	}
	meta, err := json.Marshal(asset.Metadata)
	if err != nil {
		return assetRow{}, err
	}
	tags := asset.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return assetRow{}, err
	}

	return assetRow{
		ID:               id,
		Name:             asset.Name,
		Description:      asset.Description,
		SourceSystem:     asset.SourceSystem,
		SourceLocation:   asset.SourceLocation,
		SchemaInfo:       string(schema),
		Metadata:         string(meta),
		Tags:             string(tagsJSON),
		DataQualityScore: asset.DataQualityScore,
		IsSensitive:      asset.IsSensitive,
		IsPublic:         asset.IsPublic,
		AccessLevel:      string(asset.AccessLevel),
		CreatedAt:        dbTime{createdAt},
	}, nil
}

func (row assetRow) toRecord() (*catalog.AssetRecord, error) {
	asset := &catalog.AssetRecord{
		ID:               row.ID,
		Name:             row.Name,
		Description:      row.Description,
		SourceSystem:     row.SourceSystem,
		SourceLocation:   row.SourceLocation,
		DataQualityScore: row.DataQualityScore,
		IsSensitive:      row.IsSensitive,
		IsPublic:         row.IsPublic,
		AccessLevel:      catalog.AccessLevel(row.AccessLevel),
		CreatedAt:        row.CreatedAt.Time,
	}
	if row.SchemaInfo != "" {
		if err := json.Unmarshal([]byte(row.SchemaInfo), &asset.SchemaInfo); err != nil {
			return nil, err
		}
	}
	if row.Metadata != "" {
		if err := json.Unmarshal([]byte(row.Metadata), &asset.Metadata); err != nil {
			return nil, err
		}
	}
	asset.Tags = []string{}
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &asset.Tags); err != nil {
			return nil, err
		}
	}
	return asset, nil
}

func toFieldRow(field catalog.DataField, ordinal int) fieldRow {
	return fieldRow{
		ID:               field.ID,
		AssetID:          field.AssetID,
		Ordinal:          ordinal,
		SheetName:        field.SheetName,
		FieldName:        field.FieldName,
		DataType:         field.DataType,
		IsNullable:       field.IsNullable,
		IsUnique:         field.IsUnique,
		SensitivityLevel: string(field.SensitivityLevel),
		ContainsPII:      field.ContainsPII,
		ContainsPHI:      field.ContainsPHI,
		ContainsPCI:      field.ContainsPCI,
		CreatedAt:        dbTime{field.CreatedAt},
	}
}

func (row fieldRow) toField() catalog.DataField {
	return catalog.DataField{
		ID:               row.ID,
		AssetID:          row.AssetID,
		SheetName:        row.SheetName,
		FieldName:        row.FieldName,
		DataType:         row.DataType,
		IsNullable:       row.IsNullable,
		IsUnique:         row.IsUnique,
		SensitivityLevel: catalog.SensitivityLevel(row.SensitivityLevel),
		ContainsPII:      row.ContainsPII,
		ContainsPHI:      row.ContainsPHI,
		ContainsPCI:      row.ContainsPCI,
		CreatedAt:        row.CreatedAt.Time,
	}
}
