package pack

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/texatlas/pkg/errors"
)

// Validate checks the bounds and non-overlap invariants of placements for
// square bins of side binSize. It returns an INTERNAL_ERROR naming the first
// violation found.
func Validate(placements []Placement, binSize int) error {
	byBin := make(map[int][]Placement)
	for _, p := range placements {
		if p.Bin < 0 || p.X < 0 || p.Y < 0 || p.Width <= 0 || p.Height <= 0 {
			return errors.New(errors.ErrCodeInternal, "%s: invalid placement %+v", p.ID, p)
		}
		if p.X+p.Width > binSize || p.Y+p.Height > binSize {
			return errors.New(errors.ErrCodeInternal, "%s: placement %+v exceeds bin size %d", p.ID, p, binSize)
		}
		byBin[p.Bin] = append(byBin[p.Bin], p)
	}

	for _, ps := range byBin {
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				if ps[i].Overlaps(ps[j]) {
					return errors.New(errors.ErrCodeInternal, "%s overlaps %s in bin %d", ps[i].ID, ps[j].ID, ps[i].Bin)
				}
			}
		}
	}
	return nil
}

// Occupancy returns the fraction of each bin's area covered by placements,
// indexed by bin id.
func Occupancy(res *Result, binSize int) []float64 {
	occ := make([]float64, res.Bins)
	total := float64(binSize) * float64(binSize)
	for _, p := range res.Placements {
		occ[p.Bin] += float64(p.Width*p.Height) / total
	}
	return occ
}

// Summary describes bin occupancy across a result.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes occupancy statistics. Standard deviation is zero for
// fewer than two bins.
func Summarize(occ []float64) Summary {
	if len(occ) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(occ, nil),
		Min:  floats.Min(occ),
		Max:  floats.Max(occ),
	}
	if len(occ) > 1 {
		s.StdDev = stat.StdDev(occ, nil)
	}
	return s
}
