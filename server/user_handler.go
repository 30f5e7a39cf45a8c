package server

import (
	"net/http"

	"Tuder/core/account"
	"Tuder/core/apperr"
	"Tuder/model"

	"github.com/gorilla/mux"
)

// GetMeHandler 获取当前用户资料
func (h *APIHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	user, err := h.accounts.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMeHandler 修改用户名或邮箱
func (h *APIHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	var patch account.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.accounts.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfileImageHandler expects a multipart form with a profileImage file.
func (h *APIHandler) UpdateProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, apperr.InvalidInput("failed to parse multipart form"))
		return
	}
	image, file, err := formResource(r, "profileImage")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	user, err := h.accounts.UpdateProfileImage(r.Context(), userID, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpgradeRoleHandler 升级为艺术家或会员
func (h *APIHandler) UpgradeRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	role, valid := model.ParseRole(mux.Vars(r)["role"])
	if !valid {
		writeError(w, r, apperr.InvalidInput("unknown role %q", mux.Vars(r)["role"]))
		return
	}
	user, err := h.accounts.UpgradeRole(r.Context(), userID, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// FollowHandler 关注艺术家
func (h *APIHandler) FollowHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	artistID := mux.Vars(r)["artistId"]
	if err := h.accounts.Follow(r.Context(), userID, artistID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"artistId": artistID})
}

// UnfollowHandler 取消关注
func (h *APIHandler) UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	artistID := mux.Vars(r)["artistId"]
	if err := h.accounts.Unfollow(r.Context(), userID, artistID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"artistId": artistID})
}

// FollowingHandler 获取关注的艺术家列表
func (h *APIHandler) FollowingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	artists, err := h.accounts.Following(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}
