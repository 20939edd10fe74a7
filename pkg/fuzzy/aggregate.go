package fuzzy

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Segment is one trapezoid slice of a membership function, described by its
// area and the x position of its centroid.
type Segment struct {
	Area     float64
	Centroid float64
}

// Segments decomposes the function into one trapezoid per consecutive pair of
// control points. Each trapezoid splits into a rectangle at the lower of the
// two degrees plus a triangular correction for the slope; the trapezoid
// centroid is the area-weighted mix of the rectangle midpoint and the
// triangle centroid, which sits at one third of the width from the higher
// end. Pairs enclosing no area are dropped.
func (f *MembershipFunction) Segments() []Segment {
	var segments []Segment
	for i := 0; i < len(f.points)-1; i++ {
		cur, next := f.points[i], f.points[i+1]
		width := next.X - cur.X

		rectArea := width * math.Min(cur.Degree, next.Degree)
		rectCentroid := (cur.X + next.X) / 2

		var triArea, triCentroid float64
		switch {
		case next.Degree > cur.Degree:
			triArea = width * (next.Degree - cur.Degree) / 2
			triCentroid = cur.X + width*2.0/3.0
		case next.Degree < cur.Degree:
			triArea = width * (cur.Degree - next.Degree) / 2
			triCentroid = cur.X + width/3.0
		}

		area := rectArea + triArea
		centroid := rectCentroid
		if triArea > 0 {
			centroid = (rectArea*rectCentroid + triArea*triCentroid) / (rectArea + triArea)
		}

		if area > 0 {
			segments = append(segments, Segment{Area: area, Centroid: centroid})
		}
	}
	return segments
}

// CenterOfMass returns the area-weighted mean of the segment centroids. The
// second return value is false when the segments enclose no positive total
// area, in which case no center is defined.
func CenterOfMass(segments []Segment) (float64, bool) {
	if len(segments) == 0 {
		return 0, false
	}
	centroids := make([]float64, len(segments))
	areas := make([]float64, len(segments))
	for i, s := range segments {
		centroids[i] = s.Centroid
		areas[i] = s.Area
	}
	if floats.Sum(areas) <= 0 {
		return 0, false
	}
	return stat.Mean(centroids, areas), true
}
