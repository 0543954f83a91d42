// Package catalog holds the source rectangles that make up an atlas.
//
// A [Catalog] records each source image's id and dimensions in insertion
// order. Packing consumes [Catalog.All], so identical insertion sequences
// always produce identical placements.
package catalog

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/matzehuels/texatlas/pkg/errors"
)

// Rect is a source rectangle. It is a value type and never mutated after
// being added to a catalog.
type Rect struct {
	ID     string
	Width  int
	Height int
}

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width * r.Height }

// Catalog is an insertion-ordered set of rectangles with unique ids.
// The zero value is ready to use. A Catalog is not safe for concurrent writes.
type Catalog struct {
	rects []Rect
	index map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Add registers a rectangle.
//
// It returns an INVALID_DIMENSION error if width or height is not positive
// and a DUPLICATE_ID error if id was already added. A failed Add leaves the
// catalog unchanged.
func (c *Catalog) Add(id string, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "%s: invalid dimensions %dx%d", id, width, height)
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, ok := c.index[id]; ok {
		return errors.New(errors.ErrCodeDuplicateID, "%s: already in catalog", id)
	}
	c.index[id] = len(c.rects)
	c.rects = append(c.rects, Rect{ID: id, Width: width, Height: height})
	return nil
}

// All returns every rectangle in insertion order.
// The returned slice is a copy and may be modified by the caller.
func (c *Catalog) All() []Rect {
	out := make([]Rect, len(c.rects))
	copy(out, c.rects)
	return out
}

// Get returns the rectangle registered under id.
func (c *Catalog) Get(id string) (Rect, bool) {
	i, ok := c.index[id]
	if !ok {
		return Rect{}, false
	}
	return c.rects[i], true
}

// Len returns the number of rectangles.
func (c *Catalog) Len() int { return len(c.rects) }

// Hash returns a SHA-256 hex digest over ids and dimensions in insertion
// order. Two catalogs with equal hashes pack identically.
func (c *Catalog) Hash() string {
	h := sha256.New()
	var buf [8]byte
	for _, r := range c.rects {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(r.ID)))
		h.Write(buf[:])
		h.Write([]byte(r.ID))
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Width))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Height))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
