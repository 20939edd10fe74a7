package oversampling

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"voxelfit/pkg/grid"
)

func TestApplyFactorNoOp(t *testing.T) {
	logger, hook := test.NewNullLogger()

	g := grid.NewGeometry()
	g.SetExtent([6]int{0, 9, 0, 9, 0, 9})
	g.SetSpacing([3]float64{1, 1, 1})
	g.SetOrigin([3]float64{5, 6, 7})

	ApplyFactor(g, 1.0, logger)

	assert.Equal(t, [6]int{0, 9, 0, 9, 0, 9}, g.Extent())
	assert.Equal(t, [3]float64{1, 1, 1}, g.Spacing())
	assert.Equal(t, [3]float64{5, 6, 7}, g.Origin())
	assert.Empty(t, g.Data())
	assert.Empty(t, hook.Entries)
}

func TestApplyFactorDoubling(t *testing.T) {
	logger, _ := test.NewNullLogger()

	g := grid.NewGeometry()
	g.SetExtent([6]int{0, 9, 0, 9, 0, 9})
	g.SetSpacing([3]float64{1, 1, 1})

	cornerBefore := g.TransformPoint([3]float64{-0.5, -0.5, -0.5})
	farCornerBefore := g.TransformPoint([3]float64{9.5, 9.5, 9.5})

	ApplyFactor(g, 2.0, logger)

	assert.Equal(t, [6]int{0, 19, 0, 19, 0, 19}, g.Extent())
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, 0.5, g.Spacing()[axis], 1e-12)
		assert.InDelta(t, -0.25, g.Origin()[axis], 1e-12)
	}

	// Same scalar layout, reallocated for the finer grid.
	assert.Equal(t, grid.UInt8, g.ScalarType())
	assert.Equal(t, 1, g.Components())
	assert.Len(t, g.Data(), 20*20*20)

	cornerAfter := g.TransformPoint([3]float64{-0.5, -0.5, -0.5})
	farCornerAfter := g.TransformPoint([3]float64{19.5, 19.5, 19.5})
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, cornerBefore[axis], cornerAfter[axis], 1e-12)
		assert.InDelta(t, farCornerBefore[axis], farCornerAfter[axis], 1e-12)
	}
}

func TestApplyFactorHalving(t *testing.T) {
	logger, _ := test.NewNullLogger()

	g := grid.NewGeometry()
	g.SetExtent([6]int{0, 9, 0, 9, 0, 9})
	g.SetSpacing([3]float64{1, 1, 1})

	ApplyFactor(g, 0.5, logger)

	assert.Equal(t, [6]int{0, 4, 0, 4, 0, 4}, g.Extent())
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, 2.0, g.Spacing()[axis], 1e-12)
		assert.InDelta(t, 0.5, g.Origin()[axis], 1e-12)
	}
}

func TestApplyFactorNegativeExtent(t *testing.T) {
	logger, _ := test.NewNullLogger()

	g := grid.NewGeometry()
	g.SetExtent([6]int{-5, 4, -5, 4, -5, 4})
	g.SetSpacing([3]float64{1, 1, 1})

	cornerBefore := g.TransformPoint([3]float64{-5.5, -5.5, -5.5})

	ApplyFactor(g, 2.0, logger)

	assert.Equal(t, [6]int{-10, 9, -10, 9, -10, 9}, g.Extent())

	cornerAfter := g.TransformPoint([3]float64{-10.5, -10.5, -10.5})
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, 0.5, g.Spacing()[axis], 1e-12)
		assert.InDelta(t, cornerBefore[axis], cornerAfter[axis], 1e-12)
	}
}

func TestApplyFactorOrientedGrid(t *testing.T) {
	logger, _ := test.NewNullLogger()

	g := grid.NewGeometry()
	g.SetExtent([6]int{0, 9, 0, 9, 0, 9})
	g.SetSpacing([3]float64{1, 1, 1})
	g.SetOrigin([3]float64{10, 20, 30})

	// Quarter turn about the z axis.
	require.NoError(t, g.SetDirection(mat.NewDense(3, 3, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	})))

	cornerBefore := g.TransformPoint([3]float64{-0.5, -0.5, -0.5})

	ApplyFactor(g, 2.0, logger)

	// The half voxel origin shift follows the rotated axes.
	origin := g.Origin()
	assert.InDelta(t, 10.25, origin[0], 1e-12)
	assert.InDelta(t, 19.75, origin[1], 1e-12)
	assert.InDelta(t, 29.75, origin[2], 1e-12)

	cornerAfter := g.TransformPoint([3]float64{-0.5, -0.5, -0.5})
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, cornerBefore[axis], cornerAfter[axis], 1e-12)
	}
}

func TestApplyFactorUnreasonable(t *testing.T) {
	for _, factor := range []float64{150.0, 0.001} {
		logger, hook := test.NewNullLogger()

		g := grid.NewGeometry()
		g.SetExtent([6]int{0, 9, 0, 9, 0, 9})
		g.SetSpacing([3]float64{1, 1, 1})

		ApplyFactor(g, factor, logger)

		assert.Equal(t, [6]int{0, 9, 0, 9, 0, 9}, g.Extent(), "factor %v", factor)
		assert.Equal(t, [3]float64{1, 1, 1}, g.Spacing(), "factor %v", factor)

		require.NotNil(t, hook.LastEntry(), "factor %v", factor)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Contains(t, hook.LastEntry().Message, "unreasonable")
	}
}

func TestApplyFactorNilGrid(t *testing.T) {
	logger, hook := test.NewNullLogger()

	assert.NotPanics(t, func() {
		ApplyFactor(nil, 2.0, logger)
	})
	assert.Empty(t, hook.Entries)
}
