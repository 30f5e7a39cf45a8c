package server

import (
	"net/http"

	"Tuder/core/apperr"
	"Tuder/core/library"
	"Tuder/model"

	"github.com/gorilla/mux"
)

// musicIDsRequest is the body of the add/remove track endpoints.
type musicIDsRequest struct {
	Musics []string `json:"musics"`
}

// CreatePlaylistHandler 创建歌单或专辑
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	var req library.CreatePlaylistInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	playlist, err := h.library.CreatePlaylist(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.NewSnapshot(playlist, nil))
}

// ListPlaylistsHandler lists the playlists of ?ownerId (default: the caller),
// filtered by ?type=all|album|playlist.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		ownerID = userID
	}
	filter, err := library.ParsePlaylistFilter(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	playlists, err := h.library.ListPlaylists(r.Context(), ownerID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// GetPlaylistHandler 获取歌单信息
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.library.GetPlaylist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// UpdatePlaylistHandler 修改歌单名称、描述
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	var patch model.PlaylistPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.library.UpdatePlaylist(r.Context(), userID, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeletePlaylistHandler 删除歌单
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	snap, err := h.library.DeletePlaylist(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// UpdatePlaylistCoverHandler expects a multipart form with a coverImage file.
func (h *APIHandler) UpdatePlaylistCoverHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, apperr.InvalidInput("failed to parse multipart form"))
		return
	}
	cover, file, err := formResource(r, "coverImage")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	snap, err := h.library.UpdateCoverImage(r.Context(), userID, mux.Vars(r)["id"], cover)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ListPlaylistMusicsHandler 获取歌单中的歌曲
func (h *APIHandler) ListPlaylistMusicsHandler(w http.ResponseWriter, r *http.Request) {
	views, err := h.library.ListTracks(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// AddPlaylistMusicsHandler 向歌单添加歌曲
func (h *APIHandler) AddPlaylistMusicsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	var req musicIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.library.AddTracks(r.Context(), userID, mux.Vars(r)["id"], req.Musics)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RemovePlaylistMusicsHandler 从歌单移除歌曲
func (h *APIHandler) RemovePlaylistMusicsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	var req musicIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.library.RemoveTracks(r.Context(), userID, mux.Vars(r)["id"], req.Musics)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
