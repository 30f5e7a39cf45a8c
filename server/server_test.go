package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Tuder/config"
	"Tuder/core/auth"
	"Tuder/db"
	"Tuder/model"
	"Tuder/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type memBlobs struct{}

func (memBlobs) Put(_ context.Context, prefix string, res *model.Resource) (string, error) {
	return "mem://" + prefix + "/" + res.Filename, nil
}

type fixedDuration int

func (d fixedDuration) Duration(context.Context, *model.Resource) (int, error) {
	return int(d), nil
}

type testServer struct {
	t      *testing.T
	router http.Handler
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatal(err)
	}

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		SearchDefaultLimit:  5,
		SearchMaxLimit:      50,
		AlbumPlaceholder:    "album.png",
		PlaylistPlaceholder: "playlist.png",
		DefaultProfileImage: "profile.png",
	}
	h := NewHandler(cfg, Deps{DB: gdb, Blobs: memBlobs{}, Durations: fixedDuration(180), Tokens: tokens})
	return &testServer{t: t, router: NewRouter(h), db: gdb}
}

func (s *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			s.t.Fatal(err)
		}
		body = bytes.NewReader(b)
	}
	return s.do(method, path, token, body, "application/json")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func (s *testServer) register(name string) string {
	s.t.Helper()
	rec := s.json(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "secret",
	})
	expectStatus(s.t, rec, http.StatusCreated)
	var res struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &res)
	return res.Token
}

func uploadForm(t *testing.T, fields map[string]string, files map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte("content of " + filename))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestStatusFor(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/users/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/playlists/missing", http.StatusNotFound},
		{http.MethodGet, "/api/playlists/missing/musics", http.StatusNotFound},
		{http.MethodGet, "/api/search/musics?term=x&limit=abc", http.StatusBadRequest},
		{http.MethodGet, "/api/search/artists?term=x", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, "", nil, "")
			expectStatus(t, rec, tt.want)
		})
	}

	rec := s.do(http.MethodGet, "/api/users/me", "not-a-token", nil, "")
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("Alice")

	rec := s.json(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.json(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice@example.com", "password": "secret"})
	expectStatus(t, rec, http.StatusOK)
	var res struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, rec, &res)
	if res.Token == "" || res.User.Username != "alice" {
		t.Errorf("login response = %+v", res)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks the password hash")
	}

	rec = s.json(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = s.do(http.MethodGet, "/api/users/me", res.Token, nil, "")
	expectStatus(t, rec, http.StatusOK)
}

func TestAlbumLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register("artist")

	rec := s.json(http.MethodPost, "/api/playlists", token, map[string]interface{}{"name": "Debut", "isAlbum": true})
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodPut, "/api/users/me/roles/artist", token, nil, "")
	expectStatus(t, rec, http.StatusOK)

	rec = s.json(http.MethodPost, "/api/playlists", token, map[string]interface{}{"name": "Debut", "isAlbum": true})
	expectStatus(t, rec, http.StatusCreated)
	var album model.PlaylistSnapshot
	decode(t, rec, &album)
	if album.CoverImage != "album.png" || !album.IsAlbum {
		t.Fatalf("album = %+v", album)
	}

	body, ct := uploadForm(t, map[string]string{"name": "T1", "albumId": album.ID}, map[string]string{"music": "t1.mp3"})
	rec = s.do(http.MethodPost, "/api/musics", token, body, ct)
	expectStatus(t, rec, http.StatusBadRequest)

	body, ct = uploadForm(t,
		map[string]string{"name": "T1", "albumId": album.ID, "genre": "rock, jazz"},
		map[string]string{"music": "t1.mp3", "coverImage": "t1.png"})
	rec = s.do(http.MethodPost, "/api/musics", token, body, ct)
	expectStatus(t, rec, http.StatusCreated)
	var track model.Music
	decode(t, rec, &track)
	if track.Duration != 180 || track.AlbumID != album.ID || track.URL != "mem://musics/t1.mp3" {
		t.Fatalf("track = %+v", track)
	}

	rec = s.do(http.MethodGet, "/api/playlists/"+album.ID+"/musics", "", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var views []model.MusicView
	decode(t, rec, &views)
	if len(views) != 1 || views[0].AlbumName != "Debut" || views[0].OwnerName != "artist" {
		t.Fatalf("views = %+v", views)
	}

	rec = s.json(http.MethodDelete, "/api/playlists/"+album.ID+"/musics", token, map[string][]string{"musics": {track.ID}})
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodGet, "/api/search/musics?term=Rock", "", nil, "")
	expectStatus(t, rec, http.StatusOK)
	views = nil
	decode(t, rec, &views)
	if len(views) != 1 || views[0].ID != track.ID {
		t.Errorf("genre search = %+v", views)
	}

	rec = s.do(http.MethodGet, "/api/search/playlists?term=deb", "", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var playlists []model.Playlist
	decode(t, rec, &playlists)
	if len(playlists) != 1 || playlists[0].ID != album.ID {
		t.Errorf("playlist search = %+v", playlists)
	}
}

func TestPlaylistMembershipOverHTTP(t *testing.T) {
	s := newTestServer(t)
	artist := s.register("artist")
	fan := s.register("fan")
	expectStatus(t, s.do(http.MethodPut, "/api/users/me/roles/artist", artist, nil, ""), http.StatusOK)

	rec := s.json(http.MethodPost, "/api/playlists", artist, map[string]interface{}{"name": "Debut", "isAlbum": true})
	expectStatus(t, rec, http.StatusCreated)
	var album model.PlaylistSnapshot
	decode(t, rec, &album)

	var ids []string
	for _, name := range []string{"One", "Two"} {
		body, ct := uploadForm(t, map[string]string{"name": name, "albumId": album.ID},
			map[string]string{"music": name + ".mp3", "coverImage": name + ".png"})
		rec := s.do(http.MethodPost, "/api/musics", artist, body, ct)
		expectStatus(t, rec, http.StatusCreated)
		var m model.Music
		decode(t, rec, &m)
		ids = append(ids, m.ID)
	}

	rec = s.json(http.MethodPost, "/api/playlists", fan, map[string]string{"name": "Mix"})
	expectStatus(t, rec, http.StatusCreated)
	var mix model.PlaylistSnapshot
	decode(t, rec, &mix)

	rec = s.json(http.MethodPost, "/api/playlists/"+mix.ID+"/musics", artist, map[string][]string{"musics": ids})
	expectStatus(t, rec, http.StatusForbidden)

	for i := 0; i < 2; i++ {
		rec = s.json(http.MethodPost, "/api/playlists/"+mix.ID+"/musics", fan, map[string][]string{"musics": ids})
		expectStatus(t, rec, http.StatusOK)
	}
	var snap model.PlaylistSnapshot
	decode(t, rec, &snap)
	if len(snap.Musics) != 2 {
		t.Fatalf("musics = %v", snap.Musics)
	}

	rec = s.json(http.MethodDelete, "/api/playlists/"+mix.ID+"/musics", fan, map[string][]string{"musics": ids[:1]})
	expectStatus(t, rec, http.StatusOK)
	snap = model.PlaylistSnapshot{}
	decode(t, rec, &snap)
	if len(snap.Musics) != 1 || snap.Musics[0] != ids[1] {
		t.Errorf("musics after removal = %v", snap.Musics)
	}

	rec = s.do(http.MethodGet, "/api/playlists?type=album", artist, nil, "")
	expectStatus(t, rec, http.StatusOK)
	var mine []model.Playlist
	decode(t, rec, &mine)
	if len(mine) != 1 || mine[0].ID != album.ID {
		t.Errorf("artist albums = %+v", mine)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/playlists?type=podcast", artist, nil, ""), http.StatusBadRequest)

	name := "Renamed"
	rec = s.json(http.MethodPut, "/api/playlists/"+mix.ID, artist, map[string]*string{"name": &name})
	expectStatus(t, rec, http.StatusForbidden)
	rec = s.json(http.MethodPut, "/api/playlists/"+mix.ID, fan, map[string]*string{"name": &name})
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodDelete, "/api/playlists/"+mix.ID, fan, nil, "")
	expectStatus(t, rec, http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/api/playlists/"+mix.ID, "", nil, ""), http.StatusNotFound)
}

func TestFollowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	artist := s.register("star")
	fan := s.register("fan")
	expectStatus(t, s.do(http.MethodPut, "/api/users/me/roles/artist", artist, nil, ""), http.StatusOK)

	rec := s.do(http.MethodGet, "/api/users/me", artist, nil, "")
	var me model.User
	decode(t, rec, &me)

	expectStatus(t, s.do(http.MethodPost, "/api/users/me/following/"+me.ID, fan, nil, ""), http.StatusOK)
	expectStatus(t, s.do(http.MethodPost, "/api/users/me/following/"+me.ID, fan, nil, ""), http.StatusBadRequest)

	rec = s.do(http.MethodGet, "/api/users/me/following", fan, nil, "")
	expectStatus(t, rec, http.StatusOK)
	var artists []model.Artist
	decode(t, rec, &artists)
	if len(artists) != 1 || artists[0].Username != "star" {
		t.Errorf("following = %+v", artists)
	}

	rec = s.do(http.MethodGet, "/api/search/artists?term=ST", "", nil, "")
	artists = nil
	decode(t, rec, &artists)
	if len(artists) != 1 {
		t.Errorf("artist search = %+v", artists)
	}

	expectStatus(t, s.do(http.MethodDelete, "/api/users/me/following/"+me.ID, fan, nil, ""), http.StatusOK)
}

func TestRandomAdvertisements(t *testing.T) {
	s := newTestServer(t)
	ads := repository.NewGormAdvertisementRepository(s.db)

	rec := s.do(http.MethodGet, "/api/advertisements/random", "", nil, "")
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty store body = %s, want []", rec.Body.String())
	}

	for _, name := range []string{"Ad One", "Ad Two", "Ad Three"} {
		ad := &model.Advertisement{Name: name, URL: "https://example.com/ad.mp3", Duration: 15}
		if err := ads.Create(context.Background(), ad); err != nil {
			t.Fatal(err)
		}
	}

	var got []model.Advertisement
	rec = s.do(http.MethodGet, "/api/advertisements/random", "", nil, "")
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &got)
	if len(got) != 1 {
		t.Errorf("default limit returned %d ads", len(got))
	}

	rec = s.do(http.MethodGet, "/api/advertisements/random?limit=3", "", nil, "")
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &got)
	if len(got) != 3 {
		t.Errorf("limit=3 returned %d ads", len(got))
	}

	rec = s.do(http.MethodGet, "/api/advertisements/random?limit=many", "", nil, "")
	expectStatus(t, rec, http.StatusBadRequest)
}
