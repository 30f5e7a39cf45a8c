package audio

import (
	"Tuder/model"

	"github.com/dhowden/tag"
)

// GenreTag returns the genre stored in the audio's ID3/Vorbis/MP4 tags, or ""
// when there is none. The body is rewound afterwards.
func GenreTag(res *model.Resource) string {
	if !res.Present() {
		return ""
	}
	defer res.Rewind()

	m, err := tag.ReadFrom(res.Body)
	if err != nil {
		return ""
	}
	return m.Genre()
}
