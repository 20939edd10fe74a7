// Package grid models the sampling geometry of a regular voxel grid: extent,
// spacing, origin and axis directions, together with the scalar buffer that
// goes with them.
package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ScalarType identifies the storage type of a single voxel component.
type ScalarType int

const (
	UInt8 ScalarType = iota
	Int8
	UInt16
	Int16
	UInt32
	Int32
	Float32
	Float64
)

// Size returns the width of the scalar type in bytes, or 0 for an unknown
// type.
func (t ScalarType) Size() int {
	switch t {
	case UInt8, Int8:
		return 1
	case UInt16, Int16:
		return 2
	case UInt32, Int32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

func (t ScalarType) String() string {
	switch t {
	case UInt8:
		return "uint8"
	case Int8:
		return "int8"
	case UInt16:
		return "uint16"
	case Int16:
		return "int16"
	case UInt32:
		return "uint32"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "unknown"
}

// ParseScalarType maps a type name to its ScalarType.
func ParseScalarType(name string) (ScalarType, error) {
	types := []ScalarType{UInt8, Int8, UInt16, Int16, UInt32, Int32, Float32, Float64}
	for _, t := range types {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown scalar type %q", name)
}

// Geometry describes where a voxel grid sits in world space and how its
// scalars are stored. The extent addresses voxels by index range per axis,
// inclusive on both ends, so an empty grid has max below min.
type Geometry struct {
	extent     [6]int
	spacing    [3]float64
	origin     [3]float64
	direction  *mat.Dense
	scalarType ScalarType
	components int
	data       []byte
}

// NewGeometry returns an empty grid with unit spacing, zero origin, axis
// aligned directions and single component uint8 scalars.
func NewGeometry() *Geometry {
	return &Geometry{
		extent:     [6]int{0, -1, 0, -1, 0, -1},
		spacing:    [3]float64{1, 1, 1},
		direction:  identityDirection(),
		scalarType: UInt8,
		components: 1,
	}
}

func identityDirection() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// Extent returns the inclusive voxel index range as min/max pairs per axis.
func (g *Geometry) Extent() [6]int {
	return g.extent
}

// SetExtent sets the inclusive voxel index range.
func (g *Geometry) SetExtent(extent [6]int) {
	g.extent = extent
}

// Spacing returns the voxel edge lengths per axis.
func (g *Geometry) Spacing() [3]float64 {
	return g.spacing
}

// SetSpacing sets the voxel edge lengths per axis.
func (g *Geometry) SetSpacing(spacing [3]float64) {
	g.spacing = spacing
}

// Origin returns the world position of voxel index (0, 0, 0).
func (g *Geometry) Origin() [3]float64 {
	return g.origin
}

// SetOrigin sets the world position of voxel index (0, 0, 0).
func (g *Geometry) SetOrigin(origin [3]float64) {
	g.origin = origin
}

// Direction returns a copy of the 3x3 axis direction matrix.
func (g *Geometry) Direction() *mat.Dense {
	return mat.DenseCopyOf(g.direction)
}

// SetDirection replaces the axis direction matrix. The matrix must be 3x3.
func (g *Geometry) SetDirection(direction *mat.Dense) error {
	r, c := direction.Dims()
	if r != 3 || c != 3 {
		return fmt.Errorf("direction matrix must be 3x3, got %dx%d", r, c)
	}
	g.direction = mat.DenseCopyOf(direction)
	return nil
}

// ScalarType returns the voxel component storage type.
func (g *Geometry) ScalarType() ScalarType {
	return g.scalarType
}

// Components returns the number of scalar components per voxel.
func (g *Geometry) Components() int {
	return g.components
}

// Dimensions returns the voxel counts per axis derived from the extent.
// Axes with max below min count as zero.
func (g *Geometry) Dimensions() [3]int {
	var dims [3]int
	for axis := 0; axis < 3; axis++ {
		d := g.extent[2*axis+1] - g.extent[2*axis] + 1
		if d < 0 {
			d = 0
		}
		dims[axis] = d
	}
	return dims
}

// VoxelCount returns the total number of voxels covered by the extent.
func (g *Geometry) VoxelCount() int {
	dims := g.Dimensions()
	return dims[0] * dims[1] * dims[2]
}

// Data returns the scalar buffer as allocated by AllocateScalars.
func (g *Geometry) Data() []byte {
	return g.data
}

// AllocateScalars replaces the scalar buffer with a zeroed one sized for the
// current extent. An empty extent, an unknown scalar type or a non-positive
// component count yields an empty buffer.
func (g *Geometry) AllocateScalars(scalarType ScalarType, components int) {
	g.scalarType = scalarType
	g.components = components

	size := g.VoxelCount() * components * scalarType.Size()
	if size <= 0 {
		g.data = nil
		return
	}
	g.data = make([]byte, size)
}

// ImageToWorldMatrix returns the homogeneous transform taking voxel index
// coordinates to world coordinates: direction times spacing in the upper
// block, origin in the last column.
func (g *Geometry) ImageToWorldMatrix() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, g.direction.At(row, col)*g.spacing[col])
		}
		m.Set(row, 3, g.origin[row])
	}
	m.Set(3, 3, 1)
	return m
}

// TransformPoint maps a point from voxel index space to world space using
// the current image to world transform.
func (g *Geometry) TransformPoint(p [3]float64) [3]float64 {
	m := g.ImageToWorldMatrix()

	var out [3]float64
	for row := 0; row < 3; row++ {
		out[row] = m.At(row, 0)*p[0] + m.At(row, 1)*p[1] + m.At(row, 2)*p[2] + m.At(row, 3)
	}
	return out
}
