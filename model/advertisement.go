package model

import "time"

// Advertisement 广告，播放间隙随机插播。Duration 单位为秒
type Advertisement struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:50;not null" validate:"required,min=1,max=50,alnumspace"`
	Description string    `json:"description" gorm:"size:100" validate:"max=100,alnumspace"`
	URL         string    `json:"url" gorm:"size:512;not null" validate:"required,url"`
	Duration    int       `json:"duration" gorm:"not null" validate:"gt=0"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName 指定表名
func (Advertisement) TableName() string {
	return "advertisements"
}
