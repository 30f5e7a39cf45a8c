package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"

	"Tuder/model"
)

// pcmWAV builds a mono 8-bit PCM WAV file holding secs seconds of silence.
func pcmWAV(sampleRate, secs int) []byte {
	data := make([]byte, sampleRate*secs)
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(1))          // block align
	binary.Write(&buf, binary.LittleEndian, uint16(8))          // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func resource(name string, body []byte) *model.Resource {
	return &model.Resource{Filename: name, Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestExtractorWAV(t *testing.T) {
	res := resource("take1.WAV", pcmWAV(8000, 3))
	e := NewExtractor("")

	secs, err := e.Duration(context.Background(), res)
	if err != nil {
		t.Fatalf("Duration() error: %v", err)
	}
	if secs != 3 {
		t.Errorf("Duration() = %d, want 3", secs)
	}

	pos, _ := res.Body.Seek(0, io.SeekCurrent)
	if pos != 0 {
		t.Errorf("body left at offset %d, want rewound", pos)
	}
}

func TestExtractorUnsupportedWithoutFFprobe(t *testing.T) {
	e := NewExtractor("")
	if _, err := e.Duration(context.Background(), resource("song.ogg", []byte("OggS"))); err == nil {
		t.Error("expected an error for an unknown format with no fallback")
	}
	if _, err := e.Duration(context.Background(), &model.Resource{Filename: "x.mp3"}); err == nil {
		t.Error("expected an error for a missing body")
	}
}

func TestExtractorCorruptFileFallsBackToFFprobe(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-ffprobe-here")
	e := NewExtractor(missing)

	res := resource("broken.wav", []byte("definitely not riff"))
	if _, err := e.Duration(context.Background(), res); err == nil {
		t.Fatal("expected the ffprobe fallback to fail")
	}
	pos, _ := res.Body.Seek(0, io.SeekCurrent)
	if pos != 0 {
		t.Errorf("body left at offset %d after failure", pos)
	}
}

func TestParseFFprobeDuration(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    int
		wantErr bool
	}{
		{"rounds down", `{"format":{"duration":"215.312000"}}`, 215, false},
		{"rounds up", `{"format":{"duration":"59.6"}}`, 60, false},
		{"missing", `{"format":{}}`, 0, true},
		{"garbage", `not json`, 0, true},
		{"not a number", `{"format":{"duration":"N/A"}}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFFprobeDuration([]byte(tt.out))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenreTagWithoutTags(t *testing.T) {
	res := resource("take1.wav", pcmWAV(8000, 1))
	if got := GenreTag(res); got != "" {
		t.Errorf("GenreTag() = %q, want empty", got)
	}
	if got := GenreTag(nil); got != "" {
		t.Errorf("GenreTag(nil) = %q", got)
	}
	pos, _ := res.Body.Seek(0, io.SeekCurrent)
	if pos != 0 {
		t.Errorf("body left at offset %d", pos)
	}
}
