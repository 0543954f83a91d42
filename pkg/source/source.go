// Package source loads atlas input images from directories.
//
// Directories are scanned non-recursively. Regular files are visited in name
// order, directories in the order given, and each file is decoded and
// converted to the 2-channel luminance+alpha layout. Files that fail to decode
// are logged and skipped; everything else is fatal.
//
// Decoded images are cached by the hash of their encoded bytes, so unchanged
// inputs skip decoding on later runs.
package source

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/texatlas/pkg/cache"
	"github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/observability"
	"github.com/matzehuels/texatlas/pkg/pixel"
)

// Image is one decoded source image.
type Image struct {
	// ID identifies the image in the catalog. It is the file path.
	ID string

	// Path is the file the image was read from.
	Path string

	// Pixels holds the converted luminance+alpha data.
	Pixels *pixel.LA
}

// Stats summarizes a Load call.
type Stats struct {
	Loaded    int
	Skipped   int
	CacheHits int
}

// Loader reads source images. The zero value decodes without caching and
// discards log output.
type Loader struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewLoader returns a loader backed by c. A nil cache disables caching and a
// nil keyer selects the default keyer.
func NewLoader(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Loader {
	l := &Loader{Cache: c, Keyer: keyer, Logger: logger}
	l.defaults()
	return l
}

// Load decodes every image in dirs. The result is ordered by directory, then
// by file name.
func (l *Loader) Load(ctx context.Context, dirs []string) ([]Image, Stats, error) {
	l.defaults()

	files, err := List(dirs, l.Logger)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		images []Image
		stats  Stats
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		px, hit, err := l.load(ctx, path)
		if errors.Is(err, errors.ErrCodeDecodeFailure) {
			l.Logger.Warn("skipping file", "path", path, "err", errors.UserMessage(err))
			stats.Skipped++
			continue
		}
		if err != nil {
			return nil, stats, err
		}
		if hit {
			stats.CacheHits++
		}
		stats.Loaded++
		images = append(images, Image{ID: path, Path: path, Pixels: px})
		l.Logger.Debug("loaded image", "path", path, "width", px.Width(), "height", px.Height(), "cached", hit)
	}
	return images, stats, nil
}

func (l *Loader) defaults() {
	if l.Cache == nil {
		l.Cache = cache.NewNullCache()
	}
	if l.Keyer == nil {
		l.Keyer = cache.NewDefaultKeyer()
	}
	if l.Logger == nil {
		l.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// load reads and decodes one file, consulting the cache first.
func (l *Loader) load(ctx context.Context, path string) (*pixel.LA, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}

	key := l.Keyer.ImageKey(cache.Hash(data))
	if cached, hit, err := l.Cache.Get(ctx, key); err == nil && hit {
		var px pixel.LA
		if err := px.UnmarshalBinary(cached); err == nil {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeImage)
			return &px, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypeImage)

	px, err := Decode(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeDecodeFailure, err, "decode %s", path)
	}

	if enc, err := px.MarshalBinary(); err == nil {
		if err := l.Cache.Set(ctx, key, enc, cache.TTLImage); err != nil {
			l.Logger.Debug("cache write failed", "path", path, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KeyTypeImage, len(enc))
		}
	}
	return px, false, nil
}

// Decode decodes an encoded image and converts it to luminance+alpha. EXIF
// orientation is applied. Supported formats are png, jpeg, gif, bmp, tiff
// and webp.
func Decode(data []byte) (*pixel.LA, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return pixel.FromImage(img), nil
}

// List returns the regular files of dirs, non-recursively, sorted by name
// within each directory. Repeated directories are ignored with a warning.
func List(dirs []string, logger *log.Logger) ([]string, error) {
	seen := make(map[string]bool, len(dirs))
	var files []string
	for _, dir := range dirs {
		if err := errors.ValidateDir(dir); err != nil {
			return nil, err
		}
		clean := filepath.Clean(dir)
		if seen[clean] {
			if logger != nil {
				logger.Warn("ignoring repeated input directory", "dir", dir)
			}
			continue
		}
		seen[clean] = true

		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "input directory %s", dir)
		}
		if !info.IsDir() {
			return nil, errors.New(errors.ErrCodeInvalidPath, "input %s is not a directory", dir)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read directory %s", dir)
		}

		var names []string
		for _, e := range entries {
			if !isRegular(dir, e) {
				continue
			}
			names = append(names, e.Name())
		}
		slices.Sort(names)
		for _, name := range names {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// isRegular reports whether e is a regular file, following symlinks.
func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}
