package model

import (
	"strings"
)

// Genre is one of a fixed set of musical genres.
type Genre string

const (
	GenrePop        Genre = "Pop"
	GenreRock       Genre = "Rock"
	GenreHipHop     Genre = "Hip-Hop"
	GenreJazz       Genre = "Jazz"
	GenreBlues      Genre = "Blues"
	GenreClassical  Genre = "Classical"
	GenreCountry    Genre = "Country"
	GenreElectronic Genre = "Electronic"
	GenreFolk       Genre = "Folk"
	GenreMetal      Genre = "Metal"
	GenreRnB        Genre = "R&B"
	GenreReggae     Genre = "Reggae"
	GenreSoul       Genre = "Soul"
	GenrePunk       Genre = "Punk"
	GenreLatin      Genre = "Latin"
	GenreIndie      Genre = "Indie"
)

// AllGenres lists every genre in enumeration order.
var AllGenres = []Genre{
	GenrePop, GenreRock, GenreHipHop, GenreJazz, GenreBlues, GenreClassical,
	GenreCountry, GenreElectronic, GenreFolk, GenreMetal, GenreRnB, GenreReggae,
	GenreSoul, GenrePunk, GenreLatin, GenreIndie,
}

// ParseGenre matches s against the known genres, ignoring case.
func ParseGenre(s string) (Genre, bool) {
	s = strings.TrimSpace(s)
	for _, g := range AllGenres {
		if strings.EqualFold(string(g), s) {
			return g, true
		}
	}
	return "", false
}

// MusicGenre 歌曲与流派的关联
type MusicGenre struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	MusicID string `gorm:"size:36;uniqueIndex:idx_music_genre;not null"`
	Genre   Genre  `gorm:"size:20;uniqueIndex:idx_music_genre;index;not null"`
}

// TableName 指定表名
func (MusicGenre) TableName() string {
	return "music_genres"
}
