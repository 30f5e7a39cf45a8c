package search

import (
	"strings"

	"Tuder/model"
)

// ExtractGenres returns the known genres whose name appears in term,
// ignoring case. The result is a set; its order carries no meaning.
func ExtractGenres(term string) []model.Genre {
	lower := strings.ToLower(term)
	var genres []model.Genre
	for _, g := range model.AllGenres {
		if strings.Contains(lower, strings.ToLower(string(g))) {
			genres = append(genres, g)
		}
	}
	return genres
}
