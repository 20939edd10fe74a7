package oversampling

import (
	"math"

	"voxelfit/pkg/fuzzy"
)

// Membership functions of the size measure input. The scale is the negated
// base 10 logarithm of the structure volume relative to the grid volume, so
// larger values mean smaller structures.
var (
	sizeLarge = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 0.5, Degree: 1},
		fuzzy.Point{X: 2, Degree: 0},
	)
	sizeMedium = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 0.5, Degree: 0},
		fuzzy.Point{X: 2, Degree: 1},
		fuzzy.Point{X: 2.5, Degree: 1},
		fuzzy.Point{X: 3, Degree: 0},
	)
	sizeSmall = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 2.5, Degree: 0},
		fuzzy.Point{X: 3, Degree: 1},
		fuzzy.Point{X: 3.25, Degree: 1},
		fuzzy.Point{X: 3.75, Degree: 0},
	)
	sizeVerySmall = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 3.25, Degree: 0},
		fuzzy.Point{X: 3.75, Degree: 1},
	)
)

// Membership functions of the complexity measure input, the normalized shape
// index above the spherical baseline.
var (
	complexityLow = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 0.2, Degree: 1},
		fuzzy.Point{X: 0.6, Degree: 0},
	)
	complexityHigh = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 0.2, Degree: 0},
		fuzzy.Point{X: 0.6, Degree: 1},
	)
)

// Membership functions of the output, expressed on the scale of the base 2
// exponent of the oversampling factor.
var (
	oversamplingLow = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: -1.25, Degree: 1},
		fuzzy.Point{X: -0.75, Degree: 1},
		fuzzy.Point{X: 0.25, Degree: 0},
	)
	oversamplingNormal = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: -0.75, Degree: 0},
		fuzzy.Point{X: 0.25, Degree: 1},
		fuzzy.Point{X: 0.75, Degree: 0},
	)
	oversamplingHigh = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 0.25, Degree: 0},
		fuzzy.Point{X: 0.75, Degree: 1},
		fuzzy.Point{X: 1.25, Degree: 1},
		fuzzy.Point{X: 1.75, Degree: 0},
	)
	oversamplingVeryHigh = fuzzy.NewMembershipFunction(
		fuzzy.Point{X: 1.25, Degree: 0},
		fuzzy.Point{X: 1.75, Degree: 1},
		fuzzy.Point{X: 2.25, Degree: 1},
	)
)

// Infer maps the two crisp input measures to an oversampling factor using
// the fuzzy rule base:
//
//  1. If size is very small, oversampling is very high.
//  2. If size is small and complexity is high, oversampling is high.
//  3. If size is medium and complexity is high, oversampling is high.
//  4. If size is small and complexity is low, oversampling is normal.
//  5. If size is medium and complexity is low, oversampling is normal.
//  6. If size is large, oversampling is low.
//
// Each rule clips a copy of its output membership function at the rule's
// firing strength. The clipped shapes are aggregated and their center of
// gravity, rounded to the nearest integer, becomes the base 2 exponent of
// the returned factor. Invalid input measures yield the safe factor 1.
func Infer(sizeMeasure, complexityMeasure float64) float64 {
	if sizeMeasure == InvalidMeasure || complexityMeasure == InvalidMeasure {
		return 1.0
	}

	degSizeLarge := sizeLarge.Value(sizeMeasure)
	degSizeMedium := sizeMedium.Value(sizeMeasure)
	degSizeSmall := sizeSmall.Value(sizeMeasure)
	degSizeVerySmall := sizeVerySmall.Value(sizeMeasure)

	degComplexityLow := complexityLow.Value(complexityMeasure)
	degComplexityHigh := complexityHigh.Value(complexityMeasure)

	rules := []struct {
		consequent *fuzzy.MembershipFunction
		strength   float64
	}{
		{oversamplingVeryHigh, degSizeVerySmall},
		{oversamplingHigh, math.Min(degSizeSmall, degComplexityHigh)},
		{oversamplingHigh, math.Min(degSizeMedium, degComplexityHigh)},
		{oversamplingNormal, math.Min(degSizeSmall, degComplexityLow)},
		{oversamplingNormal, math.Min(degSizeMedium, degComplexityLow)},
		{oversamplingLow, degSizeLarge},
	}

	var segments []fuzzy.Segment
	for _, rule := range rules {
		clipped := rule.consequent.Clone()
		clipped.Clip(rule.strength)
		segments = append(segments, clipped.Segments()...)
	}

	com, ok := fuzzy.CenterOfMass(segments)
	if !ok {
		return 1.0
	}

	power := math.Floor(com + 0.5)
	return math.Pow(2, power)
}
