package library

import (
	"context"
	"fmt"
	"strings"

	"Tuder/core/apperr"
	"Tuder/core/guard"
	"Tuder/core/search"
	"Tuder/logger"
	"Tuder/model"
	"Tuder/storage"
)

// UploadTrackInput 上传歌曲的表单字段
type UploadTrackInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=50,alnumspace"`
	Description string   `json:"description" validate:"max=100,alnumspace"`
	AlbumID     string   `json:"albumId" validate:"required"`
	Genres      []string `json:"genre"`
}

// parseGenres resolves genre names, dropping repeats.
func parseGenres(names []string) ([]model.Genre, error) {
	var out []model.Genre
	seen := make(map[model.Genre]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		g, ok := model.ParseGenre(name)
		if !ok {
			return nil, apperr.InvalidInput("unknown genre %q", name)
		}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out, nil
}

// album loads the upload target. A missing record and a record that is not an
// album are reported the same way.
func (s *Service) album(ctx context.Context, id string) (*model.Playlist, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get album %s: %w", id, err)
	}
	if p == nil {
		return nil, apperr.NotFound("album not found")
	}
	if !p.IsAlbum {
		logger.Debug("upload target is not an album", logger.String("playlist", id))
		return nil, apperr.NotFound("album not found")
	}
	return p, nil
}

// UploadTrack stores a new track in an album owned by actorID.
//
// The track row is written before it is appended to the album. If the append
// fails the track is left with a valid album id but outside the album's
// track set; RebuildAlbumMembers repairs it.
func (s *Service) UploadTrack(ctx context.Context, actorID string, in UploadTrackInput, audioRes, cover *model.Resource) (music *model.Music, err error) {
	defer func() {
		observe("upload_track", err, logger.String("album", in.AlbumID), logger.String("owner", actorID))
	}()

	if !audioRes.Present() {
		return nil, apperr.InvalidInput("music file is required")
	}
	if !cover.Present() {
		return nil, apperr.InvalidInput("coverImage is required")
	}
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	genres, err := parseGenres(in.Genres)
	if err != nil {
		return nil, err
	}

	album, err := s.album(ctx, in.AlbumID)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(actorID, album.OwnerID); err != nil {
		return nil, err
	}

	duration, err := s.durations.Duration(ctx, audioRes)
	if err != nil {
		return nil, apperr.DependencyFailure(err, "failed to read the audio duration")
	}
	if len(genres) == 0 {
		if tag := s.genreTag(audioRes); tag != "" {
			genres = search.ExtractGenres(tag)
		}
	}

	if err := audioRes.Rewind(); err != nil {
		return nil, apperr.DependencyFailure(err, "failed to read the audio file")
	}
	url, err := s.blobs.Put(ctx, storage.PrefixMusic, audioRes)
	if err != nil {
		return nil, apperr.DependencyFailure(err, "failed to store the audio file")
	}
	coverRef, err := s.blobs.Put(ctx, storage.PrefixMusicCover, cover)
	if err != nil {
		return nil, apperr.DependencyFailure(err, "failed to store the cover image")
	}

	music = &model.Music{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     actorID,
		AlbumID:     album.ID,
		CoverImage:  coverRef,
		URL:         url,
		Duration:    duration,
		Genres:      genres,
	}
	if err := s.musics.Create(ctx, music); err != nil {
		return nil, err
	}
	s.flushSearch(ctx)

	if err := s.playlists.AppendMusics(ctx, album.ID, []string{music.ID}); err != nil {
		logger.Error("track stored but not added to its album",
			logger.String("music", music.ID),
			logger.String("album", album.ID),
			logger.ErrorField(err))
		return nil, apperr.DependencyFailure(err, "track %s was stored but could not be added to the album", music.ID)
	}
	return music, nil
}
