// Package fuzzy implements the piecewise-linear membership functions and the
// center-of-gravity aggregation used by Mamdani-style fuzzy inference.
package fuzzy

import (
	"math"
	"sort"
)

// Point is a single control point of a piecewise-linear membership function.
type Point struct {
	X      float64 // Position on the input domain
	Degree float64 // Membership degree at X, normally in [0,1]
}

// MembershipFunction is a piecewise-linear function defined by control points
// with strictly increasing x positions. Between consecutive points the degree
// is linearly interpolated; outside the defined domain it holds the degree of
// the nearest edge point.
type MembershipFunction struct {
	points []Point
}

// NewMembershipFunction builds a function from the given control points.
// Points may arrive in any order; a point sharing an x position with an
// earlier one replaces it.
func NewMembershipFunction(points ...Point) *MembershipFunction {
	f := &MembershipFunction{points: make([]Point, 0, len(points))}
	for _, p := range points {
		f.AddPoint(p.X, p.Degree)
	}
	return f
}

// AddPoint inserts a control point, keeping the points ordered by x.
// Adding at an existing x replaces the stored degree instead of creating a
// duplicate position.
func (f *MembershipFunction) AddPoint(x, degree float64) {
	i := sort.Search(len(f.points), func(i int) bool { return f.points[i].X >= x })
	if i < len(f.points) && f.points[i].X == x {
		f.points[i].Degree = degree
		return
	}
	f.points = append(f.points, Point{})
	copy(f.points[i+1:], f.points[i:])
	f.points[i] = Point{X: x, Degree: degree}
}

// Len returns the number of control points.
func (f *MembershipFunction) Len() int {
	return len(f.points)
}

// Point returns the i-th control point in x order.
func (f *MembershipFunction) Point(i int) Point {
	return f.points[i]
}

// Points returns a copy of the control points in x order.
func (f *MembershipFunction) Points() []Point {
	pts := make([]Point, len(f.points))
	copy(pts, f.points)
	return pts
}

// SetDegree replaces the degree of the i-th control point.
func (f *MembershipFunction) SetDegree(i int, degree float64) {
	f.points[i].Degree = degree
}

// Value evaluates the function at x. Positions beyond the first or last
// control point clamp to that point's degree, so the function extrapolates
// flat on both sides. An empty function evaluates to zero; a NaN position
// yields NaN.
func (f *MembershipFunction) Value(x float64) float64 {
	if len(f.points) == 0 {
		return 0
	}
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x <= f.points[0].X {
		return f.points[0].Degree
	}
	last := len(f.points) - 1
	if x >= f.points[last].X {
		return f.points[last].Degree
	}
	i := sort.Search(len(f.points), func(i int) bool { return f.points[i].X >= x })
	cur, next := f.points[i-1], f.points[i]
	t := (x - cur.X) / (next.X - cur.X)
	return cur.Degree*(1-t) + next.Degree*t
}

// Clone returns an independent copy of the function. Mutating the copy,
// typically by clipping it, leaves the original untouched.
func (f *MembershipFunction) Clone() *MembershipFunction {
	c := &MembershipFunction{points: make([]Point, len(f.points))}
	copy(c.points, f.points)
	return c
}

// Clip caps the function at the given strength: every control point above the
// strength is pulled down to it, and wherever the unclipped function crossed
// the strength strictly between two points a new point is inserted at exactly
// that crossing. A strength of 1.0 or more leaves the function unchanged.
//
// Clipping is idempotent: re-clipping at the same or a higher strength is a
// no-op.
func (f *MembershipFunction) Clip(strength float64) {
	if strength >= 1.0 {
		return
	}

	// Locate the crossings before any point moves; the interpolation must be
	// taken on the unclipped shape.
	var crossings []float64
	for i := 0; i < len(f.points)-1; i++ {
		cur, next := f.points[i], f.points[i+1]
		if (cur.Degree < strength && next.Degree > strength) ||
			(cur.Degree > strength && next.Degree < strength) {
			x := (next.X-cur.X)*(cur.Degree-strength)/(cur.Degree-next.Degree) + cur.X
			crossings = append(crossings, x)
		}
	}

	// Pull down every point holding a degree above the strength.
	for i := range f.points {
		if f.points[i].Degree > strength {
			f.points[i].Degree = strength
		}
	}

	// Insert the crossings at the strength level.
	for _, x := range crossings {
		f.AddPoint(x, strength)
	}
}
