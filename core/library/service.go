// Package library implements playlist and album management: creation,
// edits, track uploads and track membership.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Tuder/core/apperr"
	"Tuder/core/audio"
	"Tuder/core/guard"
	"Tuder/logger"
	"Tuder/metrics"
	"Tuder/model"
	"Tuder/repository"
	"Tuder/storage"

	"go.uber.org/zap"
)

// CacheFlusher drops cached search results.
type CacheFlusher interface {
	Flush(ctx context.Context) error
}

// Options 默认封面与搜索缓存
type Options struct {
	AlbumPlaceholder    string
	PlaylistPlaceholder string
	// SearchCache is flushed after every change visible in search results.
	// Optional.
	SearchCache CacheFlusher
}

// Service 曲库服务，不持有任何进程内状态
type Service struct {
	playlists repository.PlaylistRepository
	musics    repository.MusicRepository
	users     repository.UserRepository
	blobs     storage.BlobStore
	durations audio.DurationExtractor
	genreTag  func(*model.Resource) string
	opts      Options
}

// NewService creates a library service.
func NewService(playlists repository.PlaylistRepository, musics repository.MusicRepository,
	users repository.UserRepository, blobs storage.BlobStore, durations audio.DurationExtractor, opts Options) *Service {
	return &Service{
		playlists: playlists,
		musics:    musics,
		users:     users,
		blobs:     blobs,
		durations: durations,
		genreTag:  audio.GenreTag,
		opts:      opts,
	}
}

// CreatePlaylistInput 创建歌单/专辑的参数
type CreatePlaylistInput struct {
	Name        string `json:"name" validate:"required,min=1,max=50,alnumspace"`
	Description string `json:"description" validate:"max=100,alnumspace"`
	IsAlbum     bool   `json:"isAlbum"`
}

// ParsePlaylistFilter maps the type query parameter to a filter. An empty
// value means all.
func ParsePlaylistFilter(s string) (model.PlaylistFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return model.FilterAll, nil
	case "album", "albums":
		return model.FilterAlbum, nil
	case "playlist", "playlists":
		return model.FilterPlaylist, nil
	}
	return "", apperr.InvalidInput("unknown playlist type %q", s)
}

// observe records the outcome of op in the metrics and the log.
func observe(op string, err error, fields ...zap.Field) {
	metrics.RecordLibraryOperation(op, err)
	fields = append(fields, logger.String("op", op))
	switch {
	case err == nil:
		logger.Info("library operation completed", fields...)
	case errors.Is(err, apperr.ErrDependencyFailure) || apperr.KindOf(err) == nil:
		logger.Error("library operation failed", append(fields, logger.ErrorField(err))...)
	default:
		logger.Warn("library operation rejected", append(fields, logger.ErrorField(err))...)
	}
}

// flushSearch drops cached search results after a catalogue change. A failed
// flush leaves results stale until the cache TTL runs out.
func (s *Service) flushSearch(ctx context.Context) {
	if s.opts.SearchCache == nil {
		return
	}
	if err := s.opts.SearchCache.Flush(ctx); err != nil {
		logger.Warn("failed to flush search cache", logger.ErrorField(err))
	}
}

func (s *Service) playlist(ctx context.Context, id string) (*model.Playlist, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get playlist %s: %w", id, err)
	}
	if p == nil {
		return nil, apperr.NotFound("playlist %s not found", id)
	}
	return p, nil
}

// owned loads a playlist and checks that actorID owns it.
func (s *Service) owned(ctx context.Context, actorID, id string) (*model.Playlist, error) {
	p, err := s.playlist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(actorID, p.OwnerID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) snapshot(ctx context.Context, id string) (*model.PlaylistSnapshot, error) {
	p, err := s.playlist(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := s.playlists.MusicIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list tracks of %s: %w", id, err)
	}
	return model.NewSnapshot(p, ids), nil
}

// CreatePlaylist creates an empty playlist or album owned by ownerID. Albums
// require the artist role.
func (s *Service) CreatePlaylist(ctx context.Context, ownerID string, in CreatePlaylistInput) (p *model.Playlist, err error) {
	kind := kindOf(in.IsAlbum)
	defer func() {
		observe("create_"+kind.name(), err, logger.String("owner", ownerID))
	}()

	if err := model.Validate(in); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", ownerID, err)
	}
	if owner == nil {
		return nil, apperr.NotFound("user %s not found", ownerID)
	}
	if err := kind.authorizeCreate(owner); err != nil {
		return nil, err
	}

	p = &model.Playlist{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		CoverImage:  kind.placeholder(s.opts),
		IsAlbum:     in.IsAlbum,
	}
	if err := s.playlists.Create(ctx, p); err != nil {
		return nil, err
	}
	s.flushSearch(ctx)
	return p, nil
}

// UpdatePlaylist applies patch to a playlist owned by actorID. The album flag
// cannot be patched.
func (s *Service) UpdatePlaylist(ctx context.Context, actorID, id string, patch model.PlaylistPatch) (snap *model.PlaylistSnapshot, err error) {
	defer func() { observe("update_playlist", err, logger.String("playlist", id)) }()

	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, apperr.InvalidInput("nothing to update")
	}
	if err := model.Validate(patch); err != nil {
		return nil, err
	}
	if err := s.playlists.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update playlist %s: %w", id, err)
	}
	s.flushSearch(ctx)
	return s.snapshot(ctx, id)
}

// UpdateCoverImage stores image in the blob store and makes it the cover of
// the playlist.
func (s *Service) UpdateCoverImage(ctx context.Context, actorID, id string, image *model.Resource) (snap *model.PlaylistSnapshot, err error) {
	defer func() { observe("update_cover", err, logger.String("playlist", id)) }()

	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	if !image.Present() {
		return nil, apperr.InvalidInput("coverImage is required")
	}
	ref, err := s.blobs.Put(ctx, storage.PrefixPlaylistCover, image)
	if err != nil {
		return nil, apperr.DependencyFailure(err, "failed to store cover image")
	}
	if err := s.playlists.Update(ctx, id, model.PlaylistPatch{CoverImage: &ref}); err != nil {
		return nil, fmt.Errorf("update cover of %s: %w", id, err)
	}
	s.flushSearch(ctx)
	return s.snapshot(ctx, id)
}

// DeletePlaylist deletes a playlist owned by actorID and returns it as it
// was. Tracks uploaded into a deleted album keep their album id.
func (s *Service) DeletePlaylist(ctx context.Context, actorID, id string) (snap *model.PlaylistSnapshot, err error) {
	defer func() { observe("delete_playlist", err, logger.String("playlist", id)) }()

	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	ids, err := s.playlists.MusicIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list tracks of %s: %w", id, err)
	}
	deleted, err := s.playlists.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		// deleted concurrently
		return nil, apperr.NotFound("playlist %s not found", id)
	}
	s.flushSearch(ctx)
	return model.NewSnapshot(deleted, ids), nil
}

// GetPlaylist returns the playlist with its creator name.
func (s *Service) GetPlaylist(ctx context.Context, id string) (*model.PlaylistInfo, error) {
	info, err := s.playlists.GetInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get playlist %s: %w", id, err)
	}
	if info == nil {
		return nil, apperr.NotFound("playlist %s not found", id)
	}
	return info, nil
}

// ListPlaylists returns the playlists of ownerID matching filter, oldest first.
func (s *Service) ListPlaylists(ctx context.Context, ownerID string, filter model.PlaylistFilter) ([]*model.Playlist, error) {
	playlists, err := s.playlists.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list playlists of %s: %w", ownerID, err)
	}
	if playlists == nil {
		playlists = []*model.Playlist{}
	}
	return playlists, nil
}
