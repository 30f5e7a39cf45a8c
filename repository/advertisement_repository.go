package repository

import (
	"context"
	"fmt"

	"Tuder/model"

	"gorm.io/gorm"
)

// AdvertisementRepository 广告数据访问接口
type AdvertisementRepository interface {
	Create(ctx context.Context, ad *model.Advertisement) error
	Count(ctx context.Context) (int, error)
	// List returns limit ads starting at offset, in insertion order.
	List(ctx context.Context, offset, limit int) ([]*model.Advertisement, error)
}

type gormAdvertisementRepository struct {
	db *gorm.DB
}

// NewGormAdvertisementRepository creates a GORM-backed AdvertisementRepository.
func NewGormAdvertisementRepository(db *gorm.DB) AdvertisementRepository {
	return &gormAdvertisementRepository{db: db}
}

func (r *gormAdvertisementRepository) Create(ctx context.Context, ad *model.Advertisement) error {
	if ad.ID == "" {
		ad.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("create advertisement %q: %w", ad.Name, err)
	}
	return nil
}

func (r *gormAdvertisementRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Advertisement{}).Count(&n).Error
	return int(n), err
}

func (r *gormAdvertisementRepository) List(ctx context.Context, offset, limit int) ([]*model.Advertisement, error) {
	var ads []*model.Advertisement
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&ads).Error
	return ads, err
}
