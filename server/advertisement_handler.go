package server

import (
	"net/http"
	"strconv"

	"Tuder/core/apperr"
)

// RandomAdvertisementsHandler 随机获取广告，?limit= 默认为 1
func (h *APIHandler) RandomAdvertisementsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, r, apperr.InvalidInput("limit must be an integer"))
			return
		}
		limit = n
	}
	ads, err := h.ads.Random(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ads)
}
