package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"Tuder/core/account"
	"Tuder/core/advert"
	"Tuder/core/apperr"
	"Tuder/core/auth"
	"Tuder/core/library"
	"Tuder/core/search"
	"Tuder/logger"
	"Tuder/model"
)

// maxUploadMemory bounds the part of a multipart form kept in memory.
const maxUploadMemory = 32 << 20

// APIHandler 处理所有API请求
type APIHandler struct {
	accounts *account.Service
	library  *library.Service
	search   *search.Service
	ads      *advert.Service
	tokens   *auth.TokenManager
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(accounts *account.Service, lib *library.Service, searcher *search.Service, ads *advert.Service, tokens *auth.TokenManager) *APIHandler {
	return &APIHandler{
		accounts: accounts,
		library:  lib,
		search:   searcher,
		ads:      ads,
		tokens:   tokens,
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrDependencyFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", logger.ErrorField(err))
	}
}

// writeError 按错误类型返回 JSON 错误
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorField(err))
	}
	writeJSON(w, status, map[string]interface{}{
		"statusCode": status,
		"message":    apperr.Message(err),
	})
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.InvalidInput("invalid request body")
	}
	return nil
}

// formResource returns the uploaded file in field, or nil when the field is
// absent. The caller closes the returned file.
func formResource(r *http.Request, field string) (*model.Resource, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperr.InvalidInput("invalid %s upload", field)
	}
	return &model.Resource{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, file, nil
}

// formList collects repeated and comma separated values of field.
func formList(r *http.Request, field string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	var out []string
	for _, v := range r.MultipartForm.Value[field] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// HealthHandler 健康检查
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
