package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events to a logger at debug level.
// It implements both PipelineHooks and CacheHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, dirs []string) {
	h.Logger.Debug("load start", "dirs", len(dirs))
}

func (h *LogHooks) OnLoadComplete(_ context.Context, images, skipped int, d time.Duration, err error) {
	h.done("load", d, err, "images", images, "skipped", skipped)
}

func (h *LogHooks) OnPackStart(_ context.Context, rects, binSize int) {
	h.Logger.Debug("pack start", "rects", rects, "bin_size", binSize)
}

func (h *LogHooks) OnPackComplete(_ context.Context, bins, attempts int, d time.Duration, err error) {
	h.done("pack", d, err, "bins", bins, "attempts", attempts)
}

func (h *LogHooks) OnCompositeStart(_ context.Context, bins int) {
	h.Logger.Debug("composite start", "bins", bins)
}

func (h *LogHooks) OnCompositeComplete(_ context.Context, bins int, d time.Duration, err error) {
	h.done("composite", d, err, "bins", bins)
}

func (h *LogHooks) OnEncodeStart(_ context.Context, tool string, layers int) {
	h.Logger.Debug("encode start", "tool", tool, "layers", layers)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, tool string, d time.Duration, err error) {
	h.done("encode", d, err, "tool", tool)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d)
	if err != nil {
		kv = append(kv, "err", err)
	}
	h.Logger.Debug(stage+" complete", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
