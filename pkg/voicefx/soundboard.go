package voicefx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedClipExtensions lists the formats the decoder can actually
// handle. m4a is deliberately absent: there is no AAC decoder, so it is
// refused at Add time rather than failing at playback.
var supportedClipExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".ogg":  true,
	".flac": true,
}

// Soundboard manages the on-disk clip directory. It is control-path only;
// nothing here is touched by the audio callback.
type Soundboard struct {
	dir    string
	logger *FXLogger
}

// DefaultSoundboardDir returns ~/.voicefx_soundboard.
func DefaultSoundboardDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", NewSoundboardError("cannot resolve home directory: " + err.Error())
	}
	return filepath.Join(home, ".voicefx_soundboard"), nil
}

// NewSoundboard creates (if needed) and opens the clip directory. An
// empty dir selects the default location.
func NewSoundboard(dir string) (*Soundboard, error) {
	if dir == "" {
		d, err := DefaultSoundboardDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewSoundboardError(fmt.Sprintf("cannot create soundboard directory %s: %v", dir, err))
	}
	return &Soundboard{
		dir:    dir,
		logger: GetGlobalLogger().WithComponent("Soundboard"),
	}, nil
}

// Dir returns the clip directory path.
func (sb *Soundboard) Dir() string {
	return sb.dir
}

// Add validates and copies an audio file into the soundboard. Returns the
// clip name it will be listed under.
func (sb *Soundboard) Add(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedClipExtensions[ext] {
		return "", NewUnsupportedFormatError(ext).AddDetail("path", path)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", NewSoundboardError(fmt.Sprintf("cannot read %s: %v", path, err))
	}
	defer src.Close()

	name := filepath.Base(path)
	dstPath := filepath.Join(sb.dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", NewSoundboardError(fmt.Sprintf("cannot create %s: %v", dstPath, err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", NewSoundboardError(fmt.Sprintf("copy to %s failed: %v", dstPath, err))
	}

	sb.logger.WithFields(map[string]interface{}{
		"clip": name,
		"dir":  sb.dir,
	}).Info("Added soundboard clip")
	return name, nil
}

// List returns the clips currently in the soundboard, sorted by name.
func (sb *Soundboard) List() ([]ClipInfo, error) {
	entries, err := os.ReadDir(sb.dir)
	if err != nil {
		return nil, NewSoundboardError(fmt.Sprintf("cannot list %s: %v", sb.dir, err))
	}

	clips := make([]ClipInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !supportedClipExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		clips = append(clips, ClipInfo{Name: entry.Name(), SizeBytes: info.Size()})
	}
	sort.Slice(clips, func(i, j int) bool { return clips[i].Name < clips[j].Name })
	return clips, nil
}

// Load decodes a clip by name into a mixable mono buffer at sampleRate.
// Names are restricted to plain file names so control requests cannot
// escape the clip directory.
func (sb *Soundboard) Load(name string, sampleRate int) ([]float32, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, NewClipNotFoundError(name)
	}
	path := filepath.Join(sb.dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, NewClipNotFoundError(name)
	}
	return DecodeAndResample(path, sampleRate)
}
