// Package audio derives metadata from uploaded audio: its duration and its
// embedded genre tag.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"Tuder/logger"
	"Tuder/model"

	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"
)

// DurationExtractor computes the playing time of an audio resource in whole
// seconds.
type DurationExtractor interface {
	Duration(ctx context.Context, res *model.Resource) (int, error)
}

// Extractor decodes MP3, FLAC and WAV headers natively and falls back to
// ffprobe for everything else. The resource body is rewound before return.
type Extractor struct {
	probe *FFprobe
}

// NewExtractor creates an Extractor. An empty ffprobePath disables the fallback.
func NewExtractor(ffprobePath string) *Extractor {
	e := &Extractor{}
	if ffprobePath != "" {
		e.probe = &FFprobe{Path: ffprobePath}
	}
	return e
}

type decodeFunc func(io.ReadSeeker) (time.Duration, error)

func decoderFor(res *model.Resource) decodeFunc {
	switch ext, ct := res.Ext(), strings.ToLower(res.ContentType); {
	case ext == ".mp3" || ct == "audio/mpeg" || ct == "audio/mp3":
		return durationMP3
	case ext == ".flac" || ct == "audio/flac" || ct == "audio/x-flac":
		return durationFLAC
	case ext == ".wav" || ct == "audio/wav" || ct == "audio/x-wav" || ct == "audio/wave":
		return durationWAV
	}
	return nil
}

// Duration implements DurationExtractor.
func (e *Extractor) Duration(ctx context.Context, res *model.Resource) (secs int, err error) {
	if !res.Present() {
		return 0, errors.New("no audio supplied")
	}
	defer func() {
		if rerr := res.Rewind(); rerr != nil && err == nil {
			err = fmt.Errorf("rewind audio: %w", rerr)
		}
	}()

	if decode := decoderFor(res); decode != nil {
		d, derr := decode(res.Body)
		if derr == nil {
			return int(math.Round(d.Seconds())), nil
		}
		logger.Warn("native duration decode failed",
			logger.String("file", res.Filename),
			logger.ErrorField(derr))
		err = derr
	}

	if e.probe == nil {
		if err == nil {
			err = fmt.Errorf("unsupported audio format %q", res.Ext())
		}
		return 0, err
	}
	if rerr := res.Rewind(); rerr != nil {
		return 0, fmt.Errorf("rewind audio: %w", rerr)
	}
	return e.probe.Duration(ctx, res.Body)
}

// durationMP3 sums the duration of every MPEG frame.
func durationMP3(r io.ReadSeeker) (time.Duration, error) {
	dec := mp3.NewDecoder(r)
	var total time.Duration
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				break // partial decode; use what we have
			}
			return 0, fmt.Errorf("decode mp3 frame: %w", err)
		}
		total += fr.Duration()
		frames++
	}
	if frames == 0 {
		return 0, errors.New("no mp3 frames found")
	}
	return total, nil
}

// durationFLAC reads the sample count from STREAMINFO.
func durationFLAC(r io.ReadSeeker) (time.Duration, error) {
	stream, err := flac.New(r)
	if err != nil {
		return 0, fmt.Errorf("parse flac: %w", err)
	}
	si := stream.Info
	if si.NSamples == 0 || si.SampleRate == 0 {
		return 0, errors.New("flac stream missing sample info")
	}
	secs := float64(si.NSamples) / float64(si.SampleRate)
	return time.Duration(secs * float64(time.Second)), nil
}

func durationWAV(r io.ReadSeeker) (time.Duration, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, errors.New("invalid wav file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("locate wav data chunk: %w", err)
	}
	bytesPerSec := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth/8)
	if bytesPerSec <= 0 {
		return 0, errors.New("invalid wav header")
	}
	secs := float64(dec.PCMLen()) / float64(bytesPerSec)
	return time.Duration(secs * float64(time.Second)), nil
}
