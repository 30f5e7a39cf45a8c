package server

import (
	"net/http"
	"strconv"

	"Tuder/core/apperr"
	"Tuder/core/library"
)

// UploadMusicHandler handles track uploads.
// Expected multipart form fields:
// - music: the audio file
// - coverImage: cover art image
// - name, description, albumId
// - genre: repeated or comma separated genre names (optional)
func (h *APIHandler) UploadMusicHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, apperr.InvalidInput("failed to parse multipart form"))
		return
	}

	audioRes, audioFile, err := formResource(r, "music")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if audioFile != nil {
		defer audioFile.Close()
	}
	cover, coverFile, err := formResource(r, "coverImage")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if coverFile != nil {
		defer coverFile.Close()
	}

	in := library.UploadTrackInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		AlbumID:     r.FormValue("albumId"),
		Genres:      formList(r, "genre"),
	}
	music, err := h.library.UploadTrack(r.Context(), userID, in, audioRes, cover)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, music)
}

// searchParams reads ?term= and ?limit=. A missing limit is 0, which the
// search service replaces with its default.
func searchParams(r *http.Request) (string, int, error) {
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", 0, apperr.InvalidInput("limit must be an integer")
		}
		limit = n
	}
	return q.Get("term"), limit, nil
}

// SearchMusicsHandler 搜索歌曲
func (h *APIHandler) SearchMusicsHandler(w http.ResponseWriter, r *http.Request) {
	term, limit, err := searchParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, err := h.search.SearchMusics(r.Context(), term, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// SearchPlaylistsHandler 搜索歌单和专辑
func (h *APIHandler) SearchPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	term, limit, err := searchParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	playlists, err := h.search.SearchPlaylists(r.Context(), term, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// SearchArtistsHandler 搜索艺术家
func (h *APIHandler) SearchArtistsHandler(w http.ResponseWriter, r *http.Request) {
	term, limit, err := searchParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	artists, err := h.search.SearchArtists(r.Context(), term, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}
