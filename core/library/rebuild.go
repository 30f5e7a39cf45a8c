package library

import (
	"context"
	"fmt"

	"Tuder/core/apperr"
	"Tuder/logger"
)

// RebuildAlbumMembers re-adds every track whose album id is albumID to the
// album's track set and returns how many were missing.
func (s *Service) RebuildAlbumMembers(ctx context.Context, albumID string) (added int, err error) {
	defer func() { observe("rebuild_album", err, logger.String("album", albumID), logger.Int("added", added)) }()

	album, err := s.album(ctx, albumID)
	if err != nil {
		return 0, err
	}
	owned, err := s.musics.ListIDsByAlbum(ctx, album.ID)
	if err != nil {
		return 0, fmt.Errorf("list tracks of album %s: %w", album.ID, err)
	}
	members, err := s.playlists.MusicIDs(ctx, album.ID)
	if err != nil {
		return 0, fmt.Errorf("list members of album %s: %w", album.ID, err)
	}

	present := make(map[string]struct{}, len(members))
	for _, id := range members {
		present[id] = struct{}{}
	}
	var missing []string
	for _, id := range owned {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	if err := s.playlists.AppendMusics(ctx, album.ID, missing); err != nil {
		return 0, apperr.DependencyFailure(err, "failed to repair album %s", album.ID)
	}
	return len(missing), nil
}

// RebuildAllAlbums runs RebuildAlbumMembers over every album. It stops at the
// first failure and returns the total repaired so far.
func (s *Service) RebuildAllAlbums(ctx context.Context) (int, error) {
	albums, err := s.playlists.ListAlbums(ctx)
	if err != nil {
		return 0, fmt.Errorf("list albums: %w", err)
	}
	total := 0
	for _, a := range albums {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.RebuildAlbumMembers(ctx, a.ID)
		if err != nil {
			return total, err
		}
		total += n
	}
	logger.Info("album rebuild finished", logger.Int("albums", len(albums)), logger.Int("added", total))
	return total, nil
}
