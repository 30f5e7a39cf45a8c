package storage

import (
	"bytes"
	"strings"
	"testing"

	"Tuder/model"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(PrefixMusic, "My Song.MP3")
	if !strings.HasPrefix(key, "musics/") || !strings.HasSuffix(key, ".mp3") {
		t.Errorf("ObjectKey() = %q", key)
	}
	if other := ObjectKey(PrefixMusic, "My Song.MP3"); other == key {
		t.Error("object keys must be unique per upload")
	}
	if key := ObjectKey(PrefixProfileImage, "noext"); strings.Contains(key, ".") {
		t.Errorf("ObjectKey(noext) = %q", key)
	}
}

func TestPublicRef(t *testing.T) {
	tests := []struct{ base, key, want string }{
		{"http://cdn/tuder", "musics/a.mp3", "http://cdn/tuder/musics/a.mp3"},
		{"http://cdn/tuder/", "/musics/a.mp3", "http://cdn/tuder/musics/a.mp3"},
	}
	for _, tt := range tests {
		if got := PublicRef(tt.base, tt.key); got != tt.want {
			t.Errorf("PublicRef(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	explicit := &model.Resource{Filename: "a.bin", ContentType: "audio/flac", Body: bytes.NewReader(nil)}
	if got := contentType(explicit); got != "audio/flac" {
		t.Errorf("contentType(explicit) = %q", got)
	}
	guessed := &model.Resource{Filename: "cover.PNG", Body: bytes.NewReader(nil)}
	if got := contentType(guessed); got != "image/png" {
		t.Errorf("contentType(png) = %q", got)
	}
	unknown := &model.Resource{Filename: "blob.zzz", Body: bytes.NewReader(nil)}
	if got := contentType(unknown); got != "application/octet-stream" {
		t.Errorf("contentType(unknown) = %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestObjectKind(t *testing.T) {
	for key, want := range map[string]string{
		"musics/a.FLAC":       "audio",
		"users/images/b.jpeg": "image",
		"playlists/covers/c":  "other",
		"test/connection.txt": "other",
	} {
		if got := objectKind(key); got != want {
			t.Errorf("objectKind(%q) = %q, want %q", key, got, want)
		}
	}
}
