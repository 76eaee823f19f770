package depth

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one frame. Depth figures are computed over valid points
// only (confidence > 0); zero-confidence pixels carry no return.
type Stats struct {
	// ValidFraction is the share of points with confidence > 0.
	ValidFraction float64

	// MinZ, MaxZ, MeanZ, StdDevZ, MedianZ describe the depth distribution
	// of the valid points, in metres.
	MinZ, MaxZ float64
	MeanZ      float64
	StdDevZ    float64
	MedianZ    float64

	// MeanNoise is the average depth noise of the valid points, in metres.
	MeanNoise float64
}

// Stats computes summary statistics for the frame. A frame with no valid
// points yields the zero Stats value with ValidFraction 0.
func (f *Frame) Stats() Stats {
	zs := make([]float64, 0, len(f.Points))
	noise := make([]float64, 0, len(f.Points))
	for _, p := range f.Points {
		if p.Confidence == 0 {
			continue
		}
		zs = append(zs, float64(p.Z))
		noise = append(noise, float64(p.Noise))
	}

	var s Stats
	if len(f.Points) > 0 {
		s.ValidFraction = float64(len(zs)) / float64(len(f.Points))
	}
	if len(zs) == 0 {
		return s
	}

	s.MinZ = floats.Min(zs)
	s.MaxZ = floats.Max(zs)
	s.MeanZ = stat.Mean(zs, nil)
	s.StdDevZ = stat.StdDev(zs, nil)
	s.MeanNoise = stat.Mean(noise, nil)

	sort.Float64s(zs)
	s.MedianZ = stat.Quantile(0.5, stat.Empirical, zs, nil)

	return s
}
