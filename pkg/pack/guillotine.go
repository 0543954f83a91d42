package pack

import (
	"math"
	"slices"
)

type freeRect struct {
	x, y, w, h int
}

// freeList is the guillotine free-space structure of a single bin.
type freeList struct {
	rects []freeRect
}

func newFreeList(size int) *freeList {
	return &freeList{rects: []freeRect{{0, 0, size, size}}}
}

// find returns the index of the free rectangle that holds a w×h rectangle
// with the smallest leftover area, and that leftover area. The first
// candidate wins ties. It returns -1 if nothing fits.
func (f *freeList) find(w, h int) (int, int) {
	best, bestScore := -1, math.MaxInt
	for i, fr := range f.rects {
		if w > fr.w || h > fr.h {
			continue
		}
		score := fr.w*fr.h - w*h
		if score < bestScore {
			best, bestScore = i, score
			if score == 0 {
				break
			}
		}
	}
	return best, bestScore
}

// place puts a w×h rectangle at the top-left corner of free rectangle i and
// replaces it with the non-degenerate pieces of its guillotine split.
func (f *freeList) place(i, w, h int) (x, y int) {
	fr := f.rects[i]
	f.rects = slices.Delete(f.rects, i, i+1)

	leftoverW := fr.w - w
	leftoverH := fr.h - h

	// Split along the shorter leftover axis.
	bottom := freeRect{x: fr.x, y: fr.y + h, h: leftoverH}
	right := freeRect{x: fr.x + w, y: fr.y, w: leftoverW}
	if leftoverW <= leftoverH {
		bottom.w = fr.w
		right.h = h
	} else {
		bottom.w = w
		right.h = fr.h
	}

	if bottom.w > 0 && bottom.h > 0 {
		f.rects = append(f.rects, bottom)
	}
	if right.w > 0 && right.h > 0 {
		f.rects = append(f.rects, right)
	}
	return fr.x, fr.y
}
