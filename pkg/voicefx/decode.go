package voicefx

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// resampleQuality is the beep resampler quality (1..64); 4 is a good
// trade-off for one-shot soundboard clips.
const resampleQuality = 4

const decodeChunkFrames = 512

// DecodeAndResample decodes an audio file into a mono float32 buffer at
// targetRate, ready for OverlayMixer.Set. Any failure (unreadable or
// unsupported file, corrupt stream) is returned to the caller; a partial
// buffer never escapes.
func DecodeAndResample(path string, targetRate int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDecodeError(err.Error(), path)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, NewUnsupportedFormatError(ext)
	}
	if err != nil {
		return nil, NewDecodeError(err.Error(), path)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if int(format.SampleRate) != targetRate {
		src = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(targetRate), streamer)
	}

	out := make([]float32, 0, streamer.Len())
	chunk := make([][2]float64, decodeChunkFrames)
	for {
		n, ok := src.Stream(chunk)
		for i := 0; i < n; i++ {
			mono := (chunk[i][0] + chunk[i][1]) / 2
			if mono > 1 {
				mono = 1
			} else if mono < -1 {
				mono = -1
			}
			out = append(out, float32(mono))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, NewDecodeError(err.Error(), path)
	}
	if len(out) == 0 {
		return nil, NewDecodeError("decoded zero samples", path)
	}

	return out, nil
}
