// Package advert serves the advertisements played between tracks.
package advert

import (
	"context"
	"fmt"
	"math/rand/v2"

	"Tuder/core/apperr"
	"Tuder/logger"
	"Tuder/metrics"
	"Tuder/model"
	"Tuder/repository"
)

const (
	// DefaultLimit is used when the caller asks for no particular count.
	DefaultLimit = 1
	// MaxLimit caps a single request.
	MaxLimit = 20
)

// Service 广告服务
type Service struct {
	ads  repository.AdvertisementRepository
	intn func(n int) int
}

// NewService creates an advertisement service.
func NewService(ads repository.AdvertisementRepository) *Service {
	return &Service{ads: ads, intn: rand.IntN}
}

// CreateInput 新增广告的参数
type CreateInput struct {
	Name        string `json:"name" validate:"required,min=1,max=50,alnumspace"`
	Description string `json:"description" validate:"max=100,alnumspace"`
	URL         string `json:"url" validate:"required,url"`
	Duration    int    `json:"duration" validate:"gt=0"`
}

// Create stores a new advertisement.
func (s *Service) Create(ctx context.Context, in CreateInput) (ad *model.Advertisement, err error) {
	defer func() { metrics.RecordLibraryOperation("create_advertisement", err) }()

	if err := model.Validate(in); err != nil {
		return nil, err
	}
	ad = &model.Advertisement{
		Name:        in.Name,
		Description: in.Description,
		URL:         in.URL,
		Duration:    in.Duration,
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	logger.Info("advertisement created", logger.String("id", ad.ID), logger.String("name", ad.Name))
	return ad, nil
}

// Random returns up to limit consecutive ads starting at a random position.
// The start is capped so that a full page is returned whenever the store
// holds at least limit ads. A zero limit means DefaultLimit.
func (s *Service) Random(ctx context.Context, limit int) ([]*model.Advertisement, error) {
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 0:
		return nil, apperr.InvalidInput("limit must be positive")
	case limit > MaxLimit:
		limit = MaxLimit
	}

	count, err := s.ads.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count advertisements: %w", err)
	}
	if count == 0 {
		return []*model.Advertisement{}, nil
	}
	skip := min(s.intn(count), max(count-limit, 0))

	ads, err := s.ads.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list advertisements: %w", err)
	}
	if ads == nil {
		ads = []*model.Advertisement{}
	}
	return ads, nil
}
