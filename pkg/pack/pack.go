package pack

import (
	"cmp"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texatlas/pkg/catalog"
	"github.com/matzehuels/texatlas/pkg/errors"
)

// DefaultMaxBins is the default bin ceiling.
const DefaultMaxBins = 32

// Placement assigns a rectangle to a bin at offset (X, Y).
type Placement struct {
	ID     string `json:"id"`
	Bin    int    `json:"bin"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Overlaps reports whether p and o share a bin and their areas intersect.
func (p Placement) Overlaps(o Placement) bool {
	return p.Bin == o.Bin &&
		p.X < o.X+o.Width && o.X < p.X+p.Width &&
		p.Y < o.Y+o.Height && o.Y < p.Y+p.Height
}

// Result is the outcome of a successful [Pack].
type Result struct {
	// Placements holds one entry per input rectangle, in input order.
	Placements []Placement `json:"placements"`

	// Bins is the number of bins used by the successful attempt.
	Bins int `json:"bins"`

	// Attempts is the number of attempts made, including the successful one.
	Attempts int `json:"attempts"`
}

// Option configures [Pack].
type Option func(*config)

type config struct {
	maxBins   int
	logger    *log.Logger
	onAttempt func(bins int, ok bool)
}

// WithMaxBins sets the bin ceiling. Values below 1 are rejected by Pack.
func WithMaxBins(n int) Option {
	return func(c *config) { c.maxBins = n }
}

// WithLogger logs failed attempts at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAttemptHook calls fn after every attempt with the attempt's bin count
// and whether it succeeded.
func WithAttemptHook(fn func(bins int, ok bool)) Option {
	return func(c *config) { c.onAttempt = fn }
}

// Pack places rects into square bins of side binSize.
//
// Starting with one bin, each attempt tries to place every rectangle; on
// failure all bins are discarded and the next attempt uses one more bin.
// Zero rectangles succeed trivially with a single empty bin.
func Pack(rects []catalog.Rect, binSize int, opts ...Option) (*Result, error) {
	cfg := config{
		maxBins: DefaultMaxBins,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if binSize <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bin size must be positive, got %d", binSize)
	}
	if cfg.maxBins < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bin ceiling must be at least 1, got %d", cfg.maxBins)
	}
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidDimension, "%s: invalid dimensions %dx%d", r.ID, r.Width, r.Height)
		}
		if r.Width > binSize || r.Height > binSize {
			return nil, errors.New(errors.ErrCodeRectangleTooLarge,
				"%s: %dx%d does not fit a %dx%d bin", r.ID, r.Width, r.Height, binSize, binSize)
		}
	}

	order := placementOrder(rects)

	for bins := 1; bins <= cfg.maxBins; bins++ {
		placements, ok := attempt(rects, order, binSize, bins)
		if cfg.onAttempt != nil {
			cfg.onAttempt(bins, ok)
		}
		if ok {
			return &Result{Placements: placements, Bins: bins, Attempts: bins}, nil
		}
		cfg.logger.Debug("pack attempt failed", "bins", bins, "rects", len(rects))
	}

	return nil, errors.New(errors.ErrCodeCapacityExceeded,
		"%d rectangles do not fit in %d bins of %dx%d; increase the sheet size or reduce the input",
		len(rects), cfg.maxBins, binSize, binSize)
}

// placementOrder returns indices into rects sorted by descending area, then
// descending longest side, then ascending id.
func placementOrder(rects []catalog.Rect) []int {
	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ra, rb := rects[a], rects[b]
		if c := cmp.Compare(rb.Area(), ra.Area()); c != 0 {
			return c
		}
		if c := cmp.Compare(max(rb.Width, rb.Height), max(ra.Width, ra.Height)); c != 0 {
			return c
		}
		return cmp.Compare(ra.ID, rb.ID)
	})
	return order
}

// attempt packs every rectangle into exactly bins bins. It reports false as
// soon as one rectangle cannot be placed; nothing is returned in that case.
func attempt(rects []catalog.Rect, order []int, binSize, bins int) ([]Placement, bool) {
	free := make([]*freeList, bins)
	for i := range free {
		free[i] = newFreeList(binSize)
	}

	out := make([]Placement, len(rects))
	for _, i := range order {
		r := rects[i]

		bestBin, bestRect, bestScore := -1, -1, math.MaxInt
		for b, fl := range free {
			idx, score := fl.find(r.Width, r.Height)
			if idx >= 0 && score < bestScore {
				bestBin, bestRect, bestScore = b, idx, score
			}
			if bestScore == 0 {
				break
			}
		}
		if bestBin < 0 {
			return nil, false
		}

		x, y := free[bestBin].place(bestRect, r.Width, r.Height)
		out[i] = Placement{ID: r.ID, Bin: bestBin, X: x, Y: y, Width: r.Width, Height: r.Height}
	}
	return out, true
}
