// Package composite materializes packing placements into per-bin images.
//
// Each bin gets a zeroed luminance+alpha buffer of the bin size. Every
// placement's source pixels are copied verbatim, row by row, to its offset.
// There is no blending and no resampling.
//
// Bins are composited concurrently. A worker only writes to the buffer of
// the bin it owns, so no locking is needed; the placements are assumed to
// satisfy the bounds and non-overlap invariants established by package pack.
package composite

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/pack"
	"github.com/matzehuels/texatlas/pkg/pixel"
)

// Source resolves a placement id to its source image. Implementations must
// be safe for concurrent reads.
type Source interface {
	Image(id string) (*pixel.LA, bool)
}

// Images is a map-backed Source.
type Images map[string]*pixel.LA

// Image implements Source.
func (m Images) Image(id string) (*pixel.LA, bool) {
	img, ok := m[id]
	return img, ok
}

// Option configures [Composite].
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers limits the number of bins composited at once.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// Composite returns one buffer per bin, indexed by bin id. Bins without
// placements are still allocated so that bin ids map onto layer indices.
//
// A placement whose id is missing from src, or whose source image does not
// match the placed dimensions, is an INTERNAL_ERROR.
func Composite(ctx context.Context, placements []pack.Placement, bins, binSize int, src Source, opts ...Option) ([]*pixel.LA, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	byBin := make([][]pack.Placement, bins)
	for _, p := range placements {
		if p.Bin < 0 || p.Bin >= bins {
			return nil, errors.New(errors.ErrCodeInternal, "%s: bin %d out of range [0,%d)", p.ID, p.Bin, bins)
		}
		byBin[p.Bin] = append(byBin[p.Bin], p)
	}

	out := make([]*pixel.LA, bins)
	for i := range out {
		out[i] = pixel.NewLA(binSize, binSize)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for bin, ps := range byBin {
		if len(ps) == 0 {
			continue
		}
		dst := out[bin]
		g.Go(func() error {
			for _, p := range ps {
				if err := ctx.Err(); err != nil {
					return err
				}
				img, ok := src.Image(p.ID)
				if !ok {
					return errors.New(errors.ErrCodeInternal, "%s: no source pixels", p.ID)
				}
				if err := blit(dst, img, p); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// blit copies img into dst at the placement offset.
func blit(dst, img *pixel.LA, p pack.Placement) error {
	if img.Width() != p.Width || img.Height() != p.Height {
		return errors.New(errors.ErrCodeInternal, "%s: source is %dx%d, placed as %dx%d",
			p.ID, img.Width(), img.Height(), p.Width, p.Height)
	}
	n := 2 * p.Width
	for j := 0; j < p.Height; j++ {
		s := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+j)
		d := dst.PixOffset(p.X, p.Y+j)
		copy(dst.Pix[d:d+n], img.Pix[s:s+n])
	}
	return nil
}
