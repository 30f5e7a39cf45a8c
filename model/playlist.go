package model

import "time"

// Playlist is an ordered track set owned by one user. Albums are playlists
// with IsAlbum set; the flag is fixed at creation.
type Playlist struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:50;index;not null"`
	Description string    `json:"description" gorm:"size:100"`
	OwnerID     string    `json:"ownerId" gorm:"size:36;index;not null"`
	CoverImage  string    `json:"coverImage" gorm:"size:512"`
	IsAlbum     bool      `json:"isAlbum" gorm:"index;not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistMusic 播放列表成员；自增 ID 即展示顺序
type PlaylistMusic struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PlaylistID string    `gorm:"size:36;uniqueIndex:idx_playlist_music;not null"`
	MusicID    string    `gorm:"size:36;uniqueIndex:idx_playlist_music;index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (PlaylistMusic) TableName() string {
	return "playlist_musics"
}

// PlaylistPatch holds the mutable fields of a playlist. Nil fields are left
// unchanged. IsAlbum has no patch field.
type PlaylistPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=50,alnumspace"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=100,alnumspace"`
	CoverImage  *string `json:"coverImage,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p PlaylistPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.CoverImage == nil
}

// PlaylistFilter 按类型筛选播放列表
type PlaylistFilter string

const (
	FilterAll      PlaylistFilter = "all"
	FilterAlbum    PlaylistFilter = "album"
	FilterPlaylist PlaylistFilter = "playlist"
)

// PlaylistInfo 带创建者名称的播放列表（API 响应用）
type PlaylistInfo struct {
	Playlist
	CreatorName string `json:"creatorName"`
	TrackCount  int    `json:"trackCount"`
}

// PlaylistSnapshot is what mutations return: the playlist's visible fields
// and its current track ids.
type PlaylistSnapshot struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	IsAlbum     bool     `json:"isAlbum"`
	Musics      []string `json:"musics"`
}

// NewSnapshot builds a snapshot of p with the given members.
func NewSnapshot(p *Playlist, musicIDs []string) *PlaylistSnapshot {
	if musicIDs == nil {
		musicIDs = []string{}
	}
	return &PlaylistSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CoverImage:  p.CoverImage,
		IsAlbum:     p.IsAlbum,
		Musics:      musicIDs,
	}
}
