package library

import (
	"context"
	"fmt"

	"Tuder/core/apperr"
	"Tuder/logger"
	"Tuder/model"
)

// uniqueIDs drops blanks and repeats, keeping first occurrences.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AddTracks adds trackIDs to a playlist owned by actorID. Ids already in the
// playlist are ignored.
func (s *Service) AddTracks(ctx context.Context, actorID, playlistID string, trackIDs []string) (snap *model.PlaylistSnapshot, err error) {
	defer func() {
		observe("add_tracks", err, logger.String("playlist", playlistID), logger.Int("count", len(trackIDs)))
	}()

	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return nil, err
	}
	ids := uniqueIDs(trackIDs)
	if len(ids) == 0 {
		return nil, apperr.InvalidInput("musics is required")
	}

	found, err := s.musics.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	if len(found) != len(ids) {
		have := make(map[string]struct{}, len(found))
		for _, m := range found {
			have[m.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := have[id]; !ok {
				return nil, apperr.NotFound("music %s not found", id)
			}
		}
	}

	if err := s.playlists.AppendMusics(ctx, playlistID, ids); err != nil {
		return nil, fmt.Errorf("add tracks to %s: %w", playlistID, err)
	}
	return s.snapshot(ctx, playlistID)
}

// RemoveTracks removes trackIDs from a playlist owned by actorID. Albums that
// own any of their current tracks refuse every removal.
func (s *Service) RemoveTracks(ctx context.Context, actorID, playlistID string, trackIDs []string) (snap *model.PlaylistSnapshot, err error) {
	defer func() {
		observe("remove_tracks", err, logger.String("playlist", playlistID), logger.Int("count", len(trackIDs)))
	}()

	p, err := s.owned(ctx, actorID, playlistID)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(trackIDs)
	if len(ids) == 0 {
		return nil, apperr.InvalidInput("musics is required")
	}

	members, err := s.playlists.MusicIDs(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list tracks of %s: %w", playlistID, err)
	}
	if err := kindOf(p.IsAlbum).checkRemoval(ctx, s.musics, p, members); err != nil {
		return nil, err
	}

	if err := s.playlists.RemoveMusics(ctx, playlistID, ids); err != nil {
		return nil, fmt.Errorf("remove tracks from %s: %w", playlistID, err)
	}
	return s.snapshot(ctx, playlistID)
}

// ListTracks returns the tracks of a playlist in membership order, each with
// its album name and uploader name.
func (s *Service) ListTracks(ctx context.Context, playlistID string) ([]*model.MusicView, error) {
	if _, err := s.playlist(ctx, playlistID); err != nil {
		return nil, err
	}
	views, err := s.musics.ListViewsInPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list tracks of %s: %w", playlistID, err)
	}
	if views == nil {
		views = []*model.MusicView{}
	}
	return views, nil
}
