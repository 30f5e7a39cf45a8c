// Package search answers track, playlist and artist queries.
package search

import (
	"context"
	"fmt"
	"time"

	"Tuder/cache"
	"Tuder/logger"
	"Tuder/metrics"
	"Tuder/model"
	"Tuder/repository"
)

// ResultCache is the subset of cache.SearchCache the service uses.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Options bound the limit accepted by the search operations.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// Service 搜索服务
type Service struct {
	musics    repository.MusicRepository
	playlists repository.PlaylistRepository
	users     repository.UserRepository
	cache     ResultCache
	opts      Options
}

// NewService creates a search service. cache may be nil.
func NewService(musics repository.MusicRepository, playlists repository.PlaylistRepository,
	users repository.UserRepository, cache ResultCache, opts Options) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 5
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	return &Service{musics: musics, playlists: playlists, users: users, cache: cache, opts: opts}
}

// effectiveLimit applies the default to non-positive limits and clamps the rest.
func (s *Service) effectiveLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *Service) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("search cache read failed", logger.String("key", key), logger.ErrorField(err))
		hit = false
	}
	metrics.RecordCacheLookup(hit)
	return hit
}

func (s *Service) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.Warn("search cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}

// SearchMusics returns tracks whose name contains term, blended with tracks
// tagged with every genre mentioned in term.
func (s *Service) SearchMusics(ctx context.Context, term string, limit int) ([]*model.MusicView, error) {
	start := time.Now()
	defer func() { metrics.RecordSearch("musics", time.Since(start)) }()

	limit = s.effectiveLimit(limit)
	key := cache.SearchKey("musics", term, limit)

	var views []*model.MusicView
	if s.cached(ctx, key, &views) {
		return views, nil
	}

	byName, err := s.musics.SearchByName(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search musics by name: %w", err)
	}
	genres := ExtractGenres(term)
	byGenre, err := s.musics.SearchByGenres(ctx, genres, limit)
	if err != nil {
		return nil, fmt.Errorf("search musics by genre: %w", err)
	}

	merged := Merge(byName, byGenre, limit, func(m *model.Music) string { return m.ID })
	ids := make([]string, len(merged))
	for i, m := range merged {
		ids[i] = m.ID
	}
	views, err = s.musics.Views(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load music views: %w", err)
	}

	logger.Debug("music search",
		logger.String("term", term),
		logger.Int("limit", limit),
		logger.Int("byName", len(byName)),
		logger.Int("byGenre", len(byGenre)),
		logger.Int("results", len(views)))

	s.store(ctx, key, views)
	return views, nil
}

// SearchPlaylists 按名称搜索播放列表和专辑
func (s *Service) SearchPlaylists(ctx context.Context, term string, limit int) ([]*model.Playlist, error) {
	start := time.Now()
	defer func() { metrics.RecordSearch("playlists", time.Since(start)) }()

	limit = s.effectiveLimit(limit)
	key := cache.SearchKey("playlists", term, limit)

	var playlists []*model.Playlist
	if s.cached(ctx, key, &playlists) {
		return playlists, nil
	}
	playlists, err := s.playlists.SearchByName(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search playlists: %w", err)
	}
	if playlists == nil {
		playlists = []*model.Playlist{}
	}
	s.store(ctx, key, playlists)
	return playlists, nil
}

// SearchArtists 按用户名搜索艺术家
func (s *Service) SearchArtists(ctx context.Context, term string, limit int) ([]*model.Artist, error) {
	start := time.Now()
	defer func() { metrics.RecordSearch("artists", time.Since(start)) }()

	limit = s.effectiveLimit(limit)
	key := cache.SearchKey("artists", term, limit)

	var artists []*model.Artist
	if s.cached(ctx, key, &artists) {
		return artists, nil
	}
	users, err := s.users.SearchArtists(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	artists = make([]*model.Artist, len(users))
	for i, u := range users {
		artists[i] = &model.Artist{ID: u.ID, Username: u.Username, ProfileImage: u.ProfileImage}
	}
	s.store(ctx, key, artists)
	return artists, nil
}
