package model

import (
	"errors"
	"strings"
	"testing"

	"Tuder/core/apperr"
)

func TestRoleSet(t *testing.T) {
	roles := RoleSet{RoleUser}
	upgraded := roles.With(RoleArtist)

	if roles.Has(RoleArtist) {
		t.Error("With must not modify the receiver")
	}
	if !upgraded.Has(RoleUser) || !upgraded.Has(RoleArtist) {
		t.Errorf("upgraded = %v, want user and artist", upgraded)
	}
	if again := upgraded.With(RoleArtist); len(again) != 2 {
		t.Errorf("adding a held role should be a no-op, got %v", again)
	}
}

func TestRoleSetColumn(t *testing.T) {
	v, err := RoleSet{RoleUser, RolePremium}.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var got RoleSet
	if err := got.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(got) != 2 || got[0] != RoleUser || got[1] != RolePremium {
		t.Errorf("Scan() = %v", got)
	}

	var empty RoleSet
	if err := empty.Scan(nil); err != nil || empty != nil {
		t.Errorf("Scan(nil) = %v, %v", empty, err)
	}
	if err := empty.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Artist "); !ok || r != RoleArtist {
		t.Errorf("ParseRole(Artist) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Error("admin is not a role")
	}
}

func TestParseGenre(t *testing.T) {
	tests := []struct {
		in   string
		want Genre
		ok   bool
	}{
		{"rock", GenreRock, true},
		{"HIP-HOP", GenreHipHop, true},
		{"r&b", GenreRnB, true},
		{" Indie ", GenreIndie, true},
		{"Polka", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseGenre(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseGenre(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

type namedInput struct {
	Name        string `json:"name" validate:"required,min=1,max=50,alnumspace"`
	Description string `json:"description" validate:"max=100,alnumspace"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      namedInput
		wantErr string
	}{
		{"valid", namedInput{Name: "Road Trip 2024", Description: "songs for the car"}, ""},
		{"missing name", namedInput{}, "name is required"},
		{"long name", namedInput{Name: strings.Repeat("a", 51)}, "name must be at most 50 characters"},
		{"punctuation", namedInput{Name: "Hits!"}, "name may only contain letters, digits and spaces"},
		{"long description", namedInput{Name: "ok", Description: strings.Repeat("b", 101)}, "description must be at most 100 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("error = %v, want InvalidInput", err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPlaylistPatchValidation(t *testing.T) {
	bad := "no/slashes"
	if err := Validate(&PlaylistPatch{Name: &bad}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("Validate() = %v, want InvalidInput", err)
	}
	if !(PlaylistPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot(&Playlist{ID: "p1", Name: "Mix"}, nil)
	if s.Musics == nil || len(s.Musics) != 0 {
		t.Errorf("Musics = %v, want empty non-nil slice", s.Musics)
	}
}
