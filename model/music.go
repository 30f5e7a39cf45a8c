package model

import "time"

// Music is an uploaded track. AlbumID is the album it was uploaded into and
// never changes; Duration is in whole seconds.
type Music struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:50;index;not null"`
	Description string    `json:"description" gorm:"size:100"`
	OwnerID     string    `json:"ownerId" gorm:"size:36;index;not null"`
	AlbumID     string    `json:"albumId" gorm:"size:36;index;not null"`
	CoverImage  string    `json:"coverImage" gorm:"size:512"`
	URL         string    `json:"url" gorm:"size:512;not null"`
	Duration    int       `json:"duration"`
	Genres      []Genre   `json:"genres" gorm:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName 指定表名
func (Music) TableName() string {
	return "musics"
}

// MusicView 带专辑名和上传者名的歌曲（API 响应用）
type MusicView struct {
	Music
	AlbumName string `json:"albumName"`
	OwnerName string `json:"ownerName"`
}
