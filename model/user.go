package model

import "time"

// User represents an account. Username and Email are stored lower-cased.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Not exposed in API responses
	Roles        RoleSet   `json:"roles" gorm:"type:json"`
	ProfileImage string    `json:"profileImage" gorm:"size:512"`
	RegisteredAt time.Time `json:"registeredAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// UserPatch holds the user columns an update may change. Nil fields keep
// their stored value.
type UserPatch struct {
	Username     *string
	Email        *string
	ProfileImage *string
}

// UserFollow 用户关注的艺术家
type UserFollow struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"size:36;uniqueIndex:idx_user_artist;not null"`
	ArtistID  string    `json:"artistId" gorm:"size:36;uniqueIndex:idx_user_artist;index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 指定表名
func (UserFollow) TableName() string {
	return "user_follows"
}

// Artist is the public projection of a user holding the artist role.
type Artist struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}
