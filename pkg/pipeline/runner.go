package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/texatlas/pkg/cache"
	"github.com/matzehuels/texatlas/pkg/catalog"
	"github.com/matzehuels/texatlas/pkg/composite"
	"github.com/matzehuels/texatlas/pkg/describe"
	"github.com/matzehuels/texatlas/pkg/encode"
	"github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/observability"
	"github.com/matzehuels/texatlas/pkg/pack"
	"github.com/matzehuels/texatlas/pkg/pixel"
	"github.com/matzehuels/texatlas/pkg/source"
)

// keyVersion scopes cache keys to the current payload encodings.
const keyVersion = "v1:"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a versioned DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyVersion)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	result := &Result{RunID: runID}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", opts.OutputDir)
	}

	// Stage 1: Load
	images, err := r.load(ctx, logger, opts, result)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	// Stage 2: Pack
	res, err := r.pack(ctx, logger, opts, images, result)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}

	// Stage 3: Composite
	bufs, err := r.composite(ctx, logger, opts, images, res, result)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}

	// Stage 4: Write bin images
	files, err := WriteBins(opts.OutputDir, bufs)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.BinFiles = files
	logger.Info("wrote bin images", "count", len(files), "dir", opts.OutputDir)

	// Stage 5: Encode
	if opts.SkipEncode {
		logger.Info("skipping texture encoding")
	} else {
		container := filepath.Join(opts.OutputDir, opts.ContainerName())
		if err := r.encode(ctx, logger, opts, container, files, result); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		result.Container = container
	}

	// Stage 6: Describe
	entries := describe.Describe(res.Placements, describe.Identity)
	result.Description = describe.New(opts.ContainerName(), opts.SheetSize, entries)
	result.DescriptionFile = filepath.Join(opts.OutputDir, opts.DescriptionName())
	if err := describe.WriteFile(result.DescriptionFile, result.Description); err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	logger.Info("wrote description", "path", result.DescriptionFile, "frames", len(entries))

	return result, nil
}

func (r *Runner) load(ctx context.Context, logger *log.Logger, opts Options, result *Result) ([]source.Image, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Inputs)

	loader := source.NewLoader(r.Cache, r.Keyer, logger)
	images, stats, err := loader.Load(ctx, opts.Inputs)

	result.Stats.LoadTime = time.Since(start)
	observability.Pipeline().OnLoadComplete(ctx, stats.Loaded, stats.Skipped, result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}

	result.Stats.Images = stats.Loaded
	result.Stats.Skipped = stats.Skipped
	result.CacheInfo.ImageHits = stats.CacheHits
	if len(images) == 0 {
		logger.Warn("no decodable images found; the atlas will be empty", "inputs", opts.Inputs)
	}
	logger.Info("loaded images",
		"images", stats.Loaded,
		"skipped", stats.Skipped,
		"cached", stats.CacheHits,
		"duration", result.Stats.LoadTime)
	return images, nil
}

func (r *Runner) pack(ctx context.Context, logger *log.Logger, opts Options, images []source.Image, result *Result) (*pack.Result, error) {
	cat := catalog.New()
	for _, img := range images {
		if err := cat.Add(img.ID, img.Pixels.Width(), img.Pixels.Height()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	observability.Pipeline().OnPackStart(ctx, cat.Len(), opts.SheetSize)

	res, hit, err := r.PackWithCacheInfo(ctx, cat, opts)

	result.Stats.PackTime = time.Since(start)
	bins, attempts := 0, 0
	if res != nil {
		bins, attempts = res.Bins, res.Attempts
	}
	observability.Pipeline().OnPackComplete(ctx, bins, attempts, result.Stats.PackTime, err)
	if err != nil {
		return nil, err
	}

	if opts.Verify {
		if err := pack.Validate(res.Placements, opts.SheetSize); err != nil {
			return nil, err
		}
		logger.Debug("verified placements", "count", len(res.Placements))
	}

	result.Placements = res.Placements
	result.Bins = res.Bins
	result.Attempts = res.Attempts
	result.CacheInfo.PackHit = hit
	result.Occupancy = pack.Summarize(pack.Occupancy(res, opts.SheetSize))

	logger.Info("packed rectangles",
		"rects", cat.Len(),
		"bins", res.Bins,
		"attempts", res.Attempts,
		"occupancy", fmt.Sprintf("%.1f%%", 100*result.Occupancy.Mean),
		"cached", hit,
		"duration", result.Stats.PackTime)
	return res, nil
}

// PackWithCacheInfo packs the catalog, consulting the cache first, and
// reports whether the result came from the cache.
func (r *Runner) PackWithCacheInfo(ctx context.Context, cat *catalog.Catalog, opts Options) (*pack.Result, bool, error) {
	opts.SetDefaults()
	key := r.Keyer.PackKey(cat.Hash(), cache.PackKeyOpts{BinSize: opts.SheetSize, MaxBins: opts.MaxBins})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached pack.Result
		if err := json.Unmarshal(data, &cached); err == nil && len(cached.Placements) == cat.Len() {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypePack)
			return &cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypePack)

	res, err := pack.Pack(cat.All(), opts.SheetSize,
		pack.WithMaxBins(opts.MaxBins),
		pack.WithLogger(opts.Logger))
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLPack); err == nil {
			observability.Cache().OnCacheSet(ctx, cache.KeyTypePack, len(data))
		}
	}
	return res, false, nil
}

func (r *Runner) composite(ctx context.Context, logger *log.Logger, opts Options, images []source.Image, res *pack.Result, result *Result) ([]*pixel.LA, error) {
	src := make(composite.Images, len(images))
	for _, img := range images {
		src[img.ID] = img.Pixels
	}

	start := time.Now()
	observability.Pipeline().OnCompositeStart(ctx, res.Bins)

	bufs, err := composite.Composite(ctx, res.Placements, res.Bins, opts.SheetSize, src,
		composite.WithWorkers(opts.Workers))

	result.Stats.CompositeTime = time.Since(start)
	observability.Pipeline().OnCompositeComplete(ctx, res.Bins, result.Stats.CompositeTime, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("composited bins", "bins", len(bufs), "duration", result.Stats.CompositeTime)
	return bufs, nil
}

func (r *Runner) encode(ctx context.Context, logger *log.Logger, opts Options, container string, files []string, result *Result) error {
	enc := opts.Enc
	if enc == nil {
		enc = encode.NewToktx(opts.Encoder, logger)
	}

	start := time.Now()
	observability.Pipeline().OnEncodeStart(ctx, opts.Encoder, len(files))

	err := enc.Encode(ctx, container, files)

	result.Stats.EncodeTime = time.Since(start)
	observability.Pipeline().OnEncodeComplete(ctx, opts.Encoder, result.Stats.EncodeTime, err)
	if err != nil {
		return err
	}
	logger.Info("encoded container",
		"path", container,
		"layers", len(files),
		"duration", result.Stats.EncodeTime)
	return nil
}

// BinFileName returns the file name of bin i's image.
func BinFileName(i int) string {
	return "atlas" + strconv.Itoa(i) + ".png"
}

// WriteBins writes each buffer as a PNG named by BinFileName and returns the
// paths in bin order.
func WriteBins(dir string, bufs []*pixel.LA) ([]string, error) {
	files := make([]string, len(bufs))
	for i, buf := range bufs {
		path := filepath.Join(dir, BinFileName(i))
		if err := writePNG(path, buf); err != nil {
			return nil, err
		}
		files[i] = path
	}
	return files, nil
}

func writePNG(path string, buf *pixel.LA) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()

	if err := png.Encode(f, buf.NRGBA()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
