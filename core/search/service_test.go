package search

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"Tuder/model"
	"Tuder/repository"
)

type fakeMusics struct {
	repository.MusicRepository
	all         []*model.Music
	genreCalls  [][]model.Genre
	nameLimit   int
	searchError error
}

func (f *fakeMusics) SearchByName(_ context.Context, term string, limit int) ([]*model.Music, error) {
	if f.searchError != nil {
		return nil, f.searchError
	}
	f.nameLimit = limit
	var out []*model.Music
	for _, m := range f.all {
		if len(out) < limit && strings.Contains(strings.ToLower(m.Name), strings.ToLower(term)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMusics) SearchByGenres(_ context.Context, genres []model.Genre, limit int) ([]*model.Music, error) {
	f.genreCalls = append(f.genreCalls, genres)
	if len(genres) == 0 {
		return nil, nil
	}
	var out []*model.Music
	for _, m := range f.all {
		if len(out) < limit && hasAll(m.Genres, genres) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMusics) Views(_ context.Context, ids []string) ([]*model.MusicView, error) {
	byID := map[string]*model.Music{}
	for _, m := range f.all {
		byID[m.ID] = m
	}
	out := make([]*model.MusicView, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, &model.MusicView{Music: *m, AlbumName: "album-" + m.AlbumID})
		}
	}
	return out, nil
}

func hasAll(have, want []model.Genre) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakePlaylists struct {
	repository.PlaylistRepository
	found []*model.Playlist
}

func (f *fakePlaylists) SearchByName(_ context.Context, _ string, limit int) ([]*model.Playlist, error) {
	if len(f.found) > limit {
		return f.found[:limit], nil
	}
	return f.found, nil
}

type fakeUsers struct {
	repository.UserRepository
	artists []*model.User
}

func (f *fakeUsers) SearchArtists(_ context.Context, _ string, limit int) ([]*model.User, error) {
	return f.artists, nil
}

// memCache stores JSON like the redis cache does.
type memCache struct {
	data    map[string][]byte
	failGet bool
	gets    int
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	if c.failGet {
		return false, errors.New("connection refused")
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func music(id, name string, genres ...model.Genre) *model.Music {
	return &model.Music{ID: id, Name: name, AlbumID: "al", Genres: genres}
}

func viewIDs(views []*model.MusicView) []string {
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func TestSearchMusicsBlendsNameAndGenre(t *testing.T) {
	musics := &fakeMusics{all: []*model.Music{
		music("1", "Rock Me", model.GenrePop),
		music("2", "Quiet", model.GenreRock),
		music("3", "Rocket", model.GenreRock),
		music("4", "Loud", model.GenreRock, model.GenreMetal),
	}}
	svc := NewService(musics, &fakePlaylists{}, &fakeUsers{}, nil, Options{DefaultLimit: 5, MaxLimit: 20})

	got, err := svc.SearchMusics(context.Background(), "rock", 4)
	if err != nil {
		t.Fatal(err)
	}
	// quota 3: names 1,3; genre 2,3(dup),4
	want := []string{"1", "3", "2", "4"}
	if ids := viewIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if got[0].AlbumName != "album-al" {
		t.Errorf("views should be annotated, got %+v", got[0])
	}
	if len(musics.genreCalls) != 1 || !reflect.DeepEqual(musics.genreCalls[0], []model.Genre{model.GenreRock}) {
		t.Errorf("genre lookups = %v", musics.genreCalls)
	}
}

func TestSearchMusicsWithoutGenreInTerm(t *testing.T) {
	musics := &fakeMusics{all: []*model.Music{music("1", "Quiet", model.GenreRock)}}
	svc := NewService(musics, &fakePlaylists{}, &fakeUsers{}, nil, Options{})

	got, err := svc.SearchMusics(context.Background(), "lullaby", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want nothing", viewIDs(got))
	}
	if len(musics.genreCalls[0]) != 0 {
		t.Errorf("genre lookup should be empty, got %v", musics.genreCalls[0])
	}
}

func TestSearchLimitDefaults(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 5},
		{"negative uses default", -3, 5},
		{"within range", 7, 7},
		{"clamped", 500, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			musics := &fakeMusics{}
			svc := NewService(musics, &fakePlaylists{}, &fakeUsers{}, nil, Options{DefaultLimit: 5, MaxLimit: 20})
			if _, err := svc.SearchMusics(context.Background(), "x", tt.limit); err != nil {
				t.Fatal(err)
			}
			if musics.nameLimit != tt.want {
				t.Errorf("fetch limit = %d, want %d", musics.nameLimit, tt.want)
			}
		})
	}
}

func TestSearchMusicsCache(t *testing.T) {
	musics := &fakeMusics{all: []*model.Music{music("1", "Rock Me")}}
	c := &memCache{data: map[string][]byte{}}
	svc := NewService(musics, &fakePlaylists{}, &fakeUsers{}, c, Options{})
	ctx := context.Background()

	first, err := svc.SearchMusics(ctx, "Rock", 5)
	if err != nil {
		t.Fatal(err)
	}
	musics.all = nil // a second store hit would now return nothing
	second, err := svc.SearchMusics(ctx, "rock", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(viewIDs(first), viewIDs(second)) {
		t.Errorf("cached = %v, want %v", viewIDs(second), viewIDs(first))
	}
}

func TestSearchCacheFailureIsMiss(t *testing.T) {
	musics := &fakeMusics{all: []*model.Music{music("1", "Rock Me")}}
	c := &memCache{data: map[string][]byte{}, failGet: true}
	svc := NewService(musics, &fakePlaylists{}, &fakeUsers{}, c, Options{})

	got, err := svc.SearchMusics(context.Background(), "rock", 5)
	if err != nil {
		t.Fatalf("cache failure must not fail the search: %v", err)
	}
	if len(got) != 1 || c.gets != 1 {
		t.Errorf("got %d results after %d cache reads", len(got), c.gets)
	}
}

func TestSearchMusicsStoreError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&fakeMusics{searchError: boom}, &fakePlaylists{}, &fakeUsers{}, nil, Options{})
	if _, err := svc.SearchMusics(context.Background(), "rock", 5); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

func TestSearchPlaylistsAndArtists(t *testing.T) {
	playlists := &fakePlaylists{found: []*model.Playlist{{ID: "p1", Name: "Mix"}, {ID: "p2", Name: "Mix 2"}}}
	users := &fakeUsers{artists: []*model.User{{ID: "u1", Username: "djmix", PasswordHash: "secret"}}}
	svc := NewService(&fakeMusics{}, playlists, users, nil, Options{DefaultLimit: 1, MaxLimit: 1})
	ctx := context.Background()

	found, err := svc.SearchPlaylists(ctx, "mix", 10)
	if err != nil || len(found) != 1 {
		t.Fatalf("SearchPlaylists = %v, %v", found, err)
	}
	artists, err := svc.SearchArtists(ctx, "mix", 0)
	if err != nil || len(artists) != 1 || artists[0].Username != "djmix" {
		t.Fatalf("SearchArtists = %v, %v", artists, err)
	}
}
