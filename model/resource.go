package model

import (
	"io"
	"path/filepath"
	"strings"
)

// Resource is an uploaded file held by the request: an audio track, a cover
// or a profile image.
type Resource struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// Present reports whether the resource carries a body.
func (r *Resource) Present() bool {
	return r != nil && r.Body != nil
}

// Ext returns the lower-cased file extension, including the dot.
func (r *Resource) Ext() string {
	return strings.ToLower(filepath.Ext(r.Filename))
}

// Rewind seeks the body back to the start.
func (r *Resource) Rewind() error {
	_, err := r.Body.Seek(0, io.SeekStart)
	return err
}
