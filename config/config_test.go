package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SEARCH_DEFAULT_LIMIT", "")
	cfg := Load()

	if cfg.SearchDefaultLimit != 5 {
		t.Errorf("SearchDefaultLimit = %d, want 5 when the variable does not parse", cfg.SearchDefaultLimit)
	}
	if cfg.AlbumPlaceholder == cfg.PlaylistPlaceholder {
		t.Errorf("album and playlist placeholders must differ, both are %q", cfg.AlbumPlaceholder)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("SEARCH_CACHE_TTL", "2m")
	t.Setenv("DB_NAME", "library")

	cfg := Load()

	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if !cfg.MinioUseSSL {
		t.Error("MinioUseSSL = false, want true")
	}
	if cfg.SearchCacheTTL != 2*time.Minute {
		t.Errorf("SearchCacheTTL = %v, want 2m", cfg.SearchCacheTTL)
	}
	if cfg.DBName != "library" {
		t.Errorf("DBName = %q, want library", cfg.DBName)
	}
}
