// Package pack assigns non-overlapping positions to rectangles across a
// growable set of fixed-size square bins.
//
// # Algorithm
//
// [Pack] sorts rectangles by descending area (ties by descending longest side,
// then by id) and places them one at a time. Every bin keeps a guillotine
// free-rectangle list; each rectangle goes into the free rectangle, across all
// bins, that leaves the smallest leftover area. The chosen free rectangle is
// split along its shorter leftover axis into at most two new free rectangles.
//
// If any rectangle does not fit, the whole attempt is discarded and packing
// restarts from scratch with one more bin. The attempt index is the bin count:
// attempt 1 uses one bin, attempt 2 uses two, and so on up to the configured
// ceiling ([DefaultMaxBins] unless overridden with [WithMaxBins]). There is no
// per-rectangle backtracking.
//
// # Errors
//
// Rectangles larger than the bin are rejected up front with
// RECTANGLE_TOO_LARGE. Exhausting the ceiling yields CAPACITY_EXCEEDED.
//
// # Determinism
//
// Given identical input (ids, dimensions, order) and bin size, Pack returns
// identical placements. Placements are returned in input order.
package pack
