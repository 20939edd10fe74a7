package oversampling

import (
	"math"

	"github.com/sirupsen/logrus"

	"voxelfit/pkg/grid"
)

// ApplyFactor rescales the grid geometry in place so its resolution changes
// by the given factor per axis while the physical corners of the covered
// volume stay where they are. A factor of 1 is a no-op, and factors outside
// [0.01, 100] only log a warning without touching the grid.
func ApplyFactor(g *grid.Geometry, factor float64, logger *logrus.Logger) {
	if g == nil {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if factor < 0.01 || factor > 100.0 {
		logger.Warnf("Oversampling factor %g seems unreasonable, not applying", factor)
		return
	}
	if factor == 1.0 {
		return
	}

	extent := g.Extent()
	spacing := g.Spacing()

	var newExtent [6]int
	var newSpacing [3]float64
	for axis := 0; axis < 3; axis++ {
		dimension := extent[axis*2+1] - extent[axis*2] + 1
		extentMin := int(math.Ceil(factor * float64(extent[axis*2])))
		extentMax := extentMin + int(math.Floor(factor*float64(dimension))) - 1
		newExtent[axis*2] = extentMin
		newExtent[axis*2+1] = extentMax
		newSpacing[axis] = spacing[axis] *
			float64(extent[axis*2+1]-extent[axis*2]+1) /
			float64(newExtent[axis*2+1]-newExtent[axis*2]+1)
	}

	g.SetExtent(newExtent)
	g.SetSpacing(newSpacing)
	g.AllocateScalars(g.ScalarType(), g.Components())

	// The origin names the center of the first voxel, not the corner of the
	// covered volume. Keeping the corner fixed therefore means shifting the
	// origin by half the spacing difference, expressed here in the voxel
	// coordinates of the rescaled grid before its origin moves.
	newOriginImage := [3]float64{
		0.5 * (1 - spacing[0]/newSpacing[0]),
		0.5 * (1 - spacing[1]/newSpacing[1]),
		0.5 * (1 - spacing[2]/newSpacing[2]),
	}
	g.SetOrigin(g.TransformPoint(newOriginImage))
}
