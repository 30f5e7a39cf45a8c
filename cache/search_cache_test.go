package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

func TestSearchKey(t *testing.T) {
	tests := []struct {
		kind, term string
		limit      int
		want       string
	}{
		{"musics", "Rock", 5, "search:musics:5:rock"},
		{"playlists", "  Road Trip ", 8, "search:playlists:8:road trip"},
		{"artists", "", 5, "search:artists:5:"},
	}
	for _, tt := range tests {
		if got := SearchKey(tt.kind, tt.term, tt.limit); got != tt.want {
			t.Errorf("SearchKey(%q, %q, %d) = %q, want %q", tt.kind, tt.term, tt.limit, got, tt.want)
		}
	}
}

func TestDisabledCacheIsAlwaysMiss(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*SearchCache{
		"nil":       nil,
		"no client": NewSearchCache(nil, time.Minute),
		"zero ttl":  NewSearchCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0),
	} {
		t.Run(name, func(t *testing.T) {
			var out []string
			hit, err := c.Get(ctx, "search:musics:5:x", &out)
			if hit || err != nil {
				t.Errorf("Get = %v, %v; want miss without error", hit, err)
			}
			if err := c.Set(ctx, "search:musics:5:x", []string{"a"}); err != nil {
				t.Errorf("Set = %v", err)
			}
			if err := c.Flush(ctx); err != nil {
				t.Errorf("Flush = %v", err)
			}
		})
	}
}

func TestUnreachableRedisReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewSearchCache(client, time.Minute)
	var out []string
	hit, err := c.Get(context.Background(), SearchKey("musics", "x", 5), &out)
	if hit || err == nil {
		t.Errorf("Get = %v, %v; want an error", hit, err)
	}
}
