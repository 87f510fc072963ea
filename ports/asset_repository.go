package ports

import (
	"context"

	"datacatalog/domain/catalog"
)

// AssetRepository persists catalog assets and their fields
type AssetRepository interface {
	// CreateAsset stores the asset and its fields together, assigning ids and timestamps
	CreateAsset(ctx context.Context, asset *catalog.AssetRecord) error
	// GetAsset returns the asset with its fields, or a NOT_FOUND error
	GetAsset(ctx context.Context, id string) (*catalog.AssetRecord, error)
	ListAssets(ctx context.Context, limit, offset int) ([]catalog.AssetRecord, error)
	ListFields(ctx context.Context, assetID string) ([]catalog.DataField, error)
}
