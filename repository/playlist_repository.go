package repository

import (
	"context"
	"errors"
	"fmt"

	"Tuder/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository 播放列表（含专辑）数据访问接口
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	GetInfo(ctx context.Context, id string) (*model.PlaylistInfo, error)
	ListByOwner(ctx context.Context, ownerID string, filter model.PlaylistFilter) ([]*model.Playlist, error)
	Update(ctx context.Context, id string, patch model.PlaylistPatch) error
	Delete(ctx context.Context, id string) (*model.Playlist, error)
	ListAlbums(ctx context.Context) ([]*model.Playlist, error)
	SearchByName(ctx context.Context, term string, limit int) ([]*model.Playlist, error)

	// 成员管理
	AppendMusics(ctx context.Context, id string, musicIDs []string) error
	RemoveMusics(ctx context.Context, id string, musicIDs []string) error
	MusicIDs(ctx context.Context, id string) ([]string, error)
}

type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a GORM-backed PlaylistRepository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

// Create 创建播放列表
func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("create playlist %q: %w", playlist.Name, err)
	}
	return nil
}

// GetByID 根据ID获取播放列表，不存在时返回 nil, nil
func (r *gormPlaylistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &playlist, nil
}

// GetInfo returns the playlist with its creator's username and track count.
func (r *gormPlaylistRepository) GetInfo(ctx context.Context, id string) (*model.PlaylistInfo, error) {
	var info model.PlaylistInfo
	res := r.db.WithContext(ctx).Table("playlists").
		Select("playlists.*, COALESCE(users.username, '') AS creator_name, " +
			"(SELECT COUNT(*) FROM playlist_musics pm WHERE pm.playlist_id = playlists.id) AS track_count").
		Joins("LEFT JOIN users ON users.id = playlists.owner_id").
		Where("playlists.id = ?", id).
		Scan(&info)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &info, nil
}

// ListByOwner 获取用户的播放列表，按创建时间排序
func (r *gormPlaylistRepository) ListByOwner(ctx context.Context, ownerID string, filter model.PlaylistFilter) ([]*model.Playlist, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	switch filter {
	case model.FilterAlbum:
		q = q.Where("is_album = ?", true)
	case model.FilterPlaylist:
		q = q.Where("is_album = ?", false)
	}

	var playlists []*model.Playlist
	err := q.Order("created_at ASC, id ASC").Find(&playlists).Error
	return playlists, err
}

// Update writes the non-nil fields of patch. is_album is never written.
func (r *gormPlaylistRepository) Update(ctx context.Context, id string, patch model.PlaylistPatch) error {
	updates := make(map[string]interface{}, 3)
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.CoverImage != nil {
		updates["cover_image"] = *patch.CoverImage
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the playlist and its membership rows, returning the record
// as it was before deletion. Tracks are left untouched.
func (r *gormPlaylistRepository) Delete(ctx context.Context, id string) (*model.Playlist, error) {
	var deleted *model.Playlist
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var playlist model.Playlist
		if err := tx.Where("id = ?", id).First(&playlist).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistMusic{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&playlist).Error; err != nil {
			return err
		}
		deleted = &playlist
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete playlist %s: %w", id, err)
	}
	return deleted, nil
}

// ListAlbums 获取全部专辑
func (r *gormPlaylistRepository) ListAlbums(ctx context.Context) ([]*model.Playlist, error) {
	var albums []*model.Playlist
	err := r.db.WithContext(ctx).
		Where("is_album = ?", true).
		Order("created_at ASC, id ASC").
		Find(&albums).Error
	return albums, err
}

// SearchByName 按名称子串搜索播放列表（不区分大小写）
func (r *gormPlaylistRepository) SearchByName(ctx context.Context, term string, limit int) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", likePattern(term)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&playlists).Error
	return playlists, err
}

// AppendMusics adds musicIDs to the playlist's track set. Ids already present
// are skipped by the store, so concurrent appends cannot lose members.
func (r *gormPlaylistRepository) AppendMusics(ctx context.Context, id string, musicIDs []string) error {
	musicIDs = dedupe(musicIDs)
	if len(musicIDs) == 0 {
		return nil
	}
	rows := make([]model.PlaylistMusic, len(musicIDs))
	for i, musicID := range musicIDs {
		rows[i] = model.PlaylistMusic{PlaylistID: id, MusicID: musicID}
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("append %d musics to playlist %s: %w", len(musicIDs), id, err)
	}
	return nil
}

// RemoveMusics removes musicIDs from the track set; absent ids are ignored.
func (r *gormPlaylistRepository) RemoveMusics(ctx context.Context, id string, musicIDs []string) error {
	if len(musicIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND music_id IN ?", id, musicIDs).
		Delete(&model.PlaylistMusic{}).Error
	if err != nil {
		return fmt.Errorf("remove musics from playlist %s: %w", id, err)
	}
	return nil
}

// MusicIDs 获取播放列表中的歌曲ID，按加入顺序
func (r *gormPlaylistRepository) MusicIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.PlaylistMusic{}).
		Where("playlist_id = ?", id).
		Order("id ASC").
		Pluck("music_id", &ids).Error
	return ids, err
}
