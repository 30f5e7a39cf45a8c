package repository

import (
	"context"
	"errors"
	"fmt"

	"Tuder/model"

	"gorm.io/gorm"
)

// MusicRepository 歌曲数据访问接口
type MusicRepository interface {
	Create(ctx context.Context, music *model.Music) error
	GetByID(ctx context.Context, id string) (*model.Music, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.Music, error)
	ListViewsInPlaylist(ctx context.Context, playlistID string) ([]*model.MusicView, error)
	ListIDsByAlbum(ctx context.Context, albumID string) ([]string, error)
	SearchByName(ctx context.Context, term string, limit int) ([]*model.Music, error)
	SearchByGenres(ctx context.Context, genres []model.Genre, limit int) ([]*model.Music, error)
	Views(ctx context.Context, ids []string) ([]*model.MusicView, error)
}

type gormMusicRepository struct {
	db *gorm.DB
}

// NewGormMusicRepository creates a GORM-backed MusicRepository.
func NewGormMusicRepository(db *gorm.DB) MusicRepository {
	return &gormMusicRepository{db: db}
}

// 歌曲视图的公共查询：附带专辑名与上传者用户名
const musicViewColumns = "musics.*, COALESCE(albums.name, '') AS album_name, COALESCE(users.username, '') AS owner_name"

func (r *gormMusicRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("musics").
		Select(musicViewColumns).
		Joins("LEFT JOIN playlists albums ON albums.id = musics.album_id").
		Joins("LEFT JOIN users ON users.id = musics.owner_id")
}

// Create inserts music together with its genre rows.
func (r *gormMusicRepository) Create(ctx context.Context, music *model.Music) error {
	if music.ID == "" {
		music.ID = newID()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(music).Error; err != nil {
			return err
		}
		if len(music.Genres) == 0 {
			return nil
		}
		rows := make([]model.MusicGenre, 0, len(music.Genres))
		seen := make(map[model.Genre]bool, len(music.Genres))
		for _, g := range music.Genres {
			if seen[g] {
				continue
			}
			seen[g] = true
			rows = append(rows, model.MusicGenre{MusicID: music.ID, Genre: g})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("create music %q: %w", music.Name, err)
	}
	return nil
}

// GetByID 根据ID获取歌曲，不存在时返回 nil, nil
func (r *gormMusicRepository) GetByID(ctx context.Context, id string) (*model.Music, error) {
	var music model.Music
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&music).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadGenres(ctx, &music); err != nil {
		return nil, err
	}
	return &music, nil
}

// ListByIDs returns the musics that exist among ids, in ids order.
func (r *gormMusicRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.Music, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var musics []*model.Music
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&musics).Error; err != nil {
		return nil, err
	}
	if err := r.loadGenres(ctx, musics...); err != nil {
		return nil, err
	}
	return orderByIDs(musics, ids, func(m *model.Music) string { return m.ID }), nil
}

// ListViewsInPlaylist 获取播放列表中的歌曲视图，按加入顺序
func (r *gormMusicRepository) ListViewsInPlaylist(ctx context.Context, playlistID string) ([]*model.MusicView, error) {
	var views []*model.MusicView
	err := r.viewQuery(ctx).
		Joins("JOIN playlist_musics pm ON pm.music_id = musics.id").
		Where("pm.playlist_id = ?", playlistID).
		Order("pm.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadViewGenres(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

// ListIDsByAlbum 获取上传到某专辑的全部歌曲ID
func (r *gormMusicRepository) ListIDsByAlbum(ctx context.Context, albumID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Music{}).
		Where("album_id = ?", albumID).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// SearchByName 按名称子串搜索歌曲（不区分大小写），按插入顺序
func (r *gormMusicRepository) SearchByName(ctx context.Context, term string, limit int) ([]*model.Music, error) {
	var musics []*model.Music
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", likePattern(term)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&musics).Error
	if err != nil {
		return nil, err
	}
	return musics, r.loadGenres(ctx, musics...)
}

// SearchByGenres returns musics tagged with every genre in genres. An empty
// genre set matches nothing.
func (r *gormMusicRepository) SearchByGenres(ctx context.Context, genres []model.Genre, limit int) ([]*model.Music, error) {
	if len(genres) == 0 {
		return nil, nil
	}
	distinct := make(map[model.Genre]struct{}, len(genres))
	for _, g := range genres {
		distinct[g] = struct{}{}
	}

	sub := r.db.Model(&model.MusicGenre{}).
		Select("music_id").
		Where("genre IN ?", genres).
		Group("music_id").
		Having("COUNT(DISTINCT genre) = ?", len(distinct))

	var musics []*model.Music
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&musics).Error
	if err != nil {
		return nil, err
	}
	return musics, r.loadGenres(ctx, musics...)
}

// Views returns annotated views of ids, in ids order. Unknown ids are skipped.
func (r *gormMusicRepository) Views(ctx context.Context, ids []string) ([]*model.MusicView, error) {
	if len(ids) == 0 {
		return []*model.MusicView{}, nil
	}
	var views []*model.MusicView
	if err := r.viewQuery(ctx).Where("musics.id IN ?", ids).Scan(&views).Error; err != nil {
		return nil, err
	}
	if err := r.loadViewGenres(ctx, views); err != nil {
		return nil, err
	}
	return orderByIDs(views, ids, func(v *model.MusicView) string { return v.ID }), nil
}

func (r *gormMusicRepository) loadGenres(ctx context.Context, musics ...*model.Music) error {
	if len(musics) == 0 {
		return nil
	}
	ids := make([]string, len(musics))
	for i, m := range musics {
		ids[i] = m.ID
	}

	var rows []model.MusicGenre
	if err := r.db.WithContext(ctx).Where("music_id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("load genres: %w", err)
	}
	byMusic := make(map[string][]model.Genre, len(musics))
	for _, row := range rows {
		byMusic[row.MusicID] = append(byMusic[row.MusicID], row.Genre)
	}
	for _, m := range musics {
		m.Genres = byMusic[m.ID]
		if m.Genres == nil {
			m.Genres = []model.Genre{}
		}
	}
	return nil
}

func (r *gormMusicRepository) loadViewGenres(ctx context.Context, views []*model.MusicView) error {
	musics := make([]*model.Music, len(views))
	for i, v := range views {
		musics[i] = &v.Music
	}
	return r.loadGenres(ctx, musics...)
}

// orderByIDs arranges items to follow ids, dropping ids with no item.
func orderByIDs[T any](items []T, ids []string, id func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[id(item)] = item
	}
	out := make([]T, 0, len(items))
	for _, want := range dedupe(ids) {
		if item, ok := byID[want]; ok {
			out = append(out, item)
		}
	}
	return out
}
