package composite

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/texatlas/pkg/catalog"
	"github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/pack"
	"github.com/matzehuels/texatlas/pkg/pixel"
)

// noise returns a w×h image filled with deterministic pseudo-random bytes.
func noise(rng *rand.Rand, w, h int) *pixel.LA {
	img := pixel.NewLA(w, h)
	for i := range img.Pix {
		img.Pix[i] = uint8(1 + rng.IntN(255))
	}
	return img
}

func TestCompositePixelFidelity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	images := Images{}
	var rects []catalog.Rect
	for i := range 40 {
		id := fmt.Sprintf("s%02d", i)
		w, h := 1+rng.IntN(30), 1+rng.IntN(30)
		images[id] = noise(rng, w, h)
		rects = append(rects, catalog.Rect{ID: id, Width: w, Height: h})
	}

	const binSize = 64
	res, err := pack.Pack(rects, binSize)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	bufs, err := Composite(context.Background(), res.Placements, res.Bins, binSize, images, WithWorkers(3))
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(bufs) != res.Bins {
		t.Fatalf("got %d buffers, want %d", len(bufs), res.Bins)
	}

	covered := make([]map[[2]int]bool, res.Bins)
	for i := range covered {
		covered[i] = make(map[[2]int]bool)
	}
	for _, p := range res.Placements {
		src := images[p.ID]
		for j := 0; j < p.Height; j++ {
			for i := 0; i < p.Width; i++ {
				wl, wa := src.LAAt(i, j)
				gl, ga := bufs[p.Bin].LAAt(p.X+i, p.Y+j)
				if wl != gl || wa != ga {
					t.Fatalf("%s pixel (%d,%d) = %d,%d, want %d,%d", p.ID, i, j, gl, ga, wl, wa)
				}
				covered[p.Bin][[2]int{p.X + i, p.Y + j}] = true
			}
		}
	}

	// Everything outside a placement stays transparent black.
	for b, buf := range bufs {
		for y := 0; y < binSize; y++ {
			for x := 0; x < binSize; x++ {
				if covered[b][[2]int{x, y}] {
					continue
				}
				if l, a := buf.LAAt(x, y); l != 0 || a != 0 {
					t.Fatalf("bin %d pixel (%d,%d) = %d,%d, want 0,0", b, x, y, l, a)
				}
			}
		}
	}
}

func TestCompositeEmptyBins(t *testing.T) {
	img := pixel.NewLA(2, 2)
	img.SetLA(0, 0, 5, 6)
	placements := []pack.Placement{{ID: "a", Bin: 2, X: 1, Y: 1, Width: 2, Height: 2}}

	bufs, err := Composite(context.Background(), placements, 3, 4, Images{"a": img})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(bufs) != 3 {
		t.Fatalf("got %d buffers, want 3", len(bufs))
	}
	for i, b := range bufs {
		if b.Width() != 4 || b.Height() != 4 {
			t.Errorf("buffer %d is %dx%d, want 4x4", i, b.Width(), b.Height())
		}
	}
	if l, a := bufs[2].LAAt(1, 1); l != 5 || a != 6 {
		t.Errorf("bin 2 (1,1) = %d,%d, want 5,6", l, a)
	}
}

func TestCompositeNoPlacements(t *testing.T) {
	bufs, err := Composite(context.Background(), nil, 1, 8, Images{})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(bufs) != 1 || len(bufs[0].Pix) != 8*8*2 {
		t.Errorf("expected one empty 8x8 buffer, got %d", len(bufs))
	}
}

func TestCompositeErrors(t *testing.T) {
	img := pixel.NewLA(2, 2)
	tests := []struct {
		name       string
		placements []pack.Placement
		src        Images
	}{
		{"missing source", []pack.Placement{{ID: "x", Bin: 0, Width: 2, Height: 2}}, Images{}},
		{"size mismatch", []pack.Placement{{ID: "a", Bin: 0, Width: 3, Height: 2}}, Images{"a": img}},
		{"bin out of range", []pack.Placement{{ID: "a", Bin: 5, Width: 2, Height: 2}}, Images{"a": img}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Composite(context.Background(), tt.placements, 1, 4, tt.src)
			if !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("Composite: got %v, want INTERNAL_ERROR", err)
			}
		})
	}
}

func TestCompositeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := pixel.NewLA(1, 1)
	placements := []pack.Placement{{ID: "a", Bin: 0, Width: 1, Height: 1}}
	if _, err := Composite(ctx, placements, 1, 4, Images{"a": img}); err == nil {
		t.Error("Composite with cancelled context should fail")
	}
}
