package asset

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository defines the interface for asset data access.
type Repository interface {
	// Allocate inserts a fresh record and returns its generated id.
	Allocate(ctx context.Context) (int64, error)
	GetURL(ctx context.Context, id int64) (string, error)
	GetStatus(ctx context.Context, id int64) (bool, error)
	SetURL(ctx context.Context, id int64, url string) error
	SetStatus(ctx context.Context, id int64, uploaded bool) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new asset repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Allocate(ctx context.Context) (int64, error) {
	record := &Asset{}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return 0, err
	}
	return record.AssetID, nil
}

func (r *repository) GetURL(ctx context.Context, id int64) (string, error) {
	var record Asset
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAssetNotFound
		}
		return "", err
	}
	return record.URL, nil
}

func (r *repository) GetStatus(ctx context.Context, id int64) (bool, error) {
	var record Asset
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrAssetNotFound
		}
		return false, err
	}
	return record.Uploaded, nil
}

func (r *repository) SetURL(ctx context.Context, id int64, url string) error {
	result := r.db.WithContext(ctx).
		Model(&Asset{}).
		Where("asset_id = ?", id).
		Update("url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, uploaded bool) error {
	result := r.db.WithContext(ctx).
		Model(&Asset{}).
		Where("asset_id = ?", id).
		Update("uploaded", uploaded)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}
