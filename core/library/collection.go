package library

import (
	"context"
	"fmt"

	"Tuder/core/apperr"
	"Tuder/core/guard"
	"Tuder/model"
	"Tuder/repository"
)

// collection holds the behaviour that differs between ordinary playlists and
// albums. The kind is fixed when the record is created.
type collection interface {
	// placeholder returns the cover assigned on creation.
	placeholder(opts Options) string
	// authorizeCreate checks that owner may create this kind of record.
	authorizeCreate(owner *model.User) error
	// checkRemoval refuses a track removal from p. members is p's full
	// current track set.
	checkRemoval(ctx context.Context, musics repository.MusicRepository, p *model.Playlist, members []string) error
	name() string
}

func kindOf(isAlbum bool) collection {
	if isAlbum {
		return albumKind{}
	}
	return playlistKind{}
}

type playlistKind struct{}

func (playlistKind) placeholder(opts Options) string { return opts.PlaylistPlaceholder }

func (playlistKind) authorizeCreate(*model.User) error { return nil }

// 普通歌单里的歌曲的 AlbumID 只可能指向专辑，无需检查
func (playlistKind) checkRemoval(context.Context, repository.MusicRepository, *model.Playlist, []string) error {
	return nil
}

func (playlistKind) name() string { return "playlist" }

type albumKind struct{}

func (albumKind) placeholder(opts Options) string { return opts.AlbumPlaceholder }

func (albumKind) authorizeCreate(owner *model.User) error {
	if err := guard.RequireRole(owner, model.RoleArtist); err != nil {
		return apperr.PermissionDenied("only artists may create albums")
	}
	return nil
}

// checkRemoval scans every current member, not only the requested ids: an
// album that owns any of its tracks refuses all removals.
func (albumKind) checkRemoval(ctx context.Context, musics repository.MusicRepository, p *model.Playlist, members []string) error {
	if len(members) == 0 {
		return nil
	}
	tracks, err := musics.ListByIDs(ctx, members)
	if err != nil {
		return fmt.Errorf("load members of %s: %w", p.ID, err)
	}
	for _, m := range tracks {
		if m.AlbumID == p.ID {
			return apperr.PermissionDenied("cannot remove a track from its own album")
		}
	}
	return nil
}

func (albumKind) name() string { return "album" }
