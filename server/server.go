package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Tuder/cache"
	"Tuder/config"
	"Tuder/core/account"
	"Tuder/core/advert"
	"Tuder/core/audio"
	"Tuder/core/auth"
	"Tuder/core/library"
	"Tuder/core/search"
	"Tuder/db"
	"Tuder/logger"
	"Tuder/repository"
	"Tuder/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is assembled from.
type Deps struct {
	DB        *gorm.DB
	Cache     search.ResultCache // optional
	Blobs     storage.BlobStore
	Durations audio.DurationExtractor
	Tokens    *auth.TokenManager
}

// NewHandler builds the services over deps and returns the API handler.
func NewHandler(cfg *config.Config, deps Deps) *APIHandler {
	users := repository.NewGormUserRepository(deps.DB)
	playlists := repository.NewGormPlaylistRepository(deps.DB)
	musics := repository.NewGormMusicRepository(deps.DB)

	accounts := account.NewService(users, deps.Blobs, deps.Tokens, cfg.DefaultProfileImage)
	libOpts := library.Options{
		AlbumPlaceholder:    cfg.AlbumPlaceholder,
		PlaylistPlaceholder: cfg.PlaylistPlaceholder,
	}
	if flusher, ok := deps.Cache.(library.CacheFlusher); ok {
		libOpts.SearchCache = flusher
	}
	lib := library.NewService(playlists, musics, users, deps.Blobs, deps.Durations, libOpts)
	searcher := search.NewService(musics, playlists, users, deps.Cache, search.Options{
		DefaultLimit: cfg.SearchDefaultLimit,
		MaxLimit:     cfg.SearchMaxLimit,
	})
	ads := advert.NewService(repository.NewGormAdvertisementRepository(deps.DB))
	return NewAPIHandler(accounts, lib, searcher, ads, deps.Tokens)
}

// NewRouter registers every API route on a gorilla/mux router.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(metricsMiddleware)

	router.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// 用户认证相关的API端点
	api.HandleFunc("/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.LoginHandler).Methods(http.MethodPost)

	// 用户
	api.HandleFunc("/users/me", h.AuthMiddleware(h.GetMeHandler)).Methods(http.MethodGet)
	api.HandleFunc("/users/me", h.AuthMiddleware(h.UpdateMeHandler)).Methods(http.MethodPut)
	api.HandleFunc("/users/me/image", h.AuthMiddleware(h.UpdateProfileImageHandler)).Methods(http.MethodPut)
	api.HandleFunc("/users/me/roles/{role}", h.AuthMiddleware(h.UpgradeRoleHandler)).Methods(http.MethodPut)
	api.HandleFunc("/users/me/following", h.AuthMiddleware(h.FollowingHandler)).Methods(http.MethodGet)
	api.HandleFunc("/users/me/following/{artistId}", h.AuthMiddleware(h.FollowHandler)).Methods(http.MethodPost)
	api.HandleFunc("/users/me/following/{artistId}", h.AuthMiddleware(h.UnfollowHandler)).Methods(http.MethodDelete)

	// 歌单与专辑
	api.HandleFunc("/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	api.HandleFunc("/playlists", h.AuthMiddleware(h.ListPlaylistsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}", h.GetPlaylistHandler).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.UpdatePlaylistHandler)).Methods(http.MethodPut)
	api.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/playlists/{id}/cover", h.AuthMiddleware(h.UpdatePlaylistCoverHandler)).Methods(http.MethodPut)
	api.HandleFunc("/playlists/{id}/musics", h.ListPlaylistMusicsHandler).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}/musics", h.AuthMiddleware(h.AddPlaylistMusicsHandler)).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}/musics", h.AuthMiddleware(h.RemovePlaylistMusicsHandler)).Methods(http.MethodDelete)

	// 歌曲上传
	api.HandleFunc("/musics", h.AuthMiddleware(h.UploadMusicHandler)).Methods(http.MethodPost)

	// 搜索
	api.HandleFunc("/search/musics", h.SearchMusicsHandler).Methods(http.MethodGet)
	api.HandleFunc("/search/playlists", h.SearchPlaylistsHandler).Methods(http.MethodGet)
	api.HandleFunc("/search/artists", h.SearchArtistsHandler).Methods(http.MethodGet)

	// 广告
	api.HandleFunc("/advertisements/random", h.RandomAdvertisementsHandler).Methods(http.MethodGet)

	return router
}

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()
	logger.Init(cfg)
	defer logger.Sync()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to configure tokens", logger.ErrorField(err))
	}

	if err := db.EnsureDatabase(cfg); err != nil {
		logger.Fatal("Failed to create database", logger.ErrorField(err))
	}
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrate(db.GormDB); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	// Redis 不可用时搜索不走缓存
	var resultCache search.ResultCache
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, search cache disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		resultCache = cache.NewSearchCache(db.RedisClient, cfg.SearchCacheTTL)
		logger.Info("Successfully connected to Redis")
	}

	blobs, err := storage.NewMinioStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	h := NewHandler(cfg, Deps{
		DB:        db.GormDB,
		Cache:     resultCache,
		Blobs:     blobs,
		Durations: audio.NewExtractor(cfg.FFprobePath),
		Tokens:    tokens,
	})

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      NewRouter(h),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}
