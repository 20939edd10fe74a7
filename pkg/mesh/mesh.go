// Package mesh provides triangle surfaces, their STL serialization and the
// mass properties used to measure them.
package mesh

import (
	"fmt"
	"math"
)

// Vec3 is a point or vector in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Triangle is a single facet of a surface. The stored normal mirrors what STL
// files carry; measurements derive orientation from the vertex winding
// instead of trusting it.
type Triangle struct {
	Normal Vec3
	V1     Vec3
	V2     Vec3
	V3     Vec3
}

// Surface is a named triangle mesh.
type Surface struct {
	Name      string
	Triangles []Triangle
}

// NewSurface creates an empty surface with the given name.
func NewSurface(name string) *Surface {
	return &Surface{
		Name:      name,
		Triangles: make([]Triangle, 0),
	}
}

// AddTriangle appends a facet to the surface.
func (s *Surface) AddTriangle(t Triangle) {
	s.Triangles = append(s.Triangles, t)
}

// TriangleCount returns the number of facets in the surface.
func (s *Surface) TriangleCount() int {
	return len(s.Triangles)
}

// MassProperties holds the integral measurements of a surface.
type MassProperties struct {
	surfaceArea          float64
	volume               float64
	volumeProjected      float64
	normalizedShapeIndex float64
}

// SurfaceArea returns the total facet area.
func (p *MassProperties) SurfaceArea() float64 {
	return p.surfaceArea
}

// EnclosedVolume returns the volume enclosed by the surface, the mean of the
// three axis-wise divergence-theorem volumes. Counter-clockwise winding seen
// from outside gives a positive volume.
func (p *MassProperties) EnclosedVolume() float64 {
	return p.volume
}

// ProjectedVolume returns the volume obtained from the z-axis flux alone. On
// a closed, consistently wound surface it matches EnclosedVolume; a gap
// between the two signals holes or flipped facets.
func (p *MassProperties) ProjectedVolume() float64 {
	return p.volumeProjected
}

// NormalizedShapeIndex returns the surface-area-to-volume shape measure,
// scaled so a sphere yields exactly 1. It grows with shape irregularity and
// is invariant under uniform scaling.
func (p *MassProperties) NormalizedShapeIndex() float64 {
	return p.normalizedShapeIndex
}

// nsiNormalization scales sqrt(area)/cbrt(volume) so a sphere lands on 1.
var nsiNormalization = 2 * math.Sqrt(math.Pi) / math.Cbrt(4*math.Pi/3)

// ComputeMassProperties integrates area and volume over the surface. The
// volumes follow the divergence theorem with the x, y and z flux integrated
// separately: the enclosed volume averages the three, while the projected
// volume keeps only the z term as a consistency probe for the caller.
func ComputeMassProperties(s *Surface) (*MassProperties, error) {
	if s == nil || len(s.Triangles) == 0 {
		return nil, fmt.Errorf("surface has no triangles to measure")
	}

	var area, vx, vy, vz float64
	for _, tri := range s.Triangles {
		e1 := Vec3{
			X: tri.V2.X - tri.V1.X,
			Y: tri.V2.Y - tri.V1.Y,
			Z: tri.V2.Z - tri.V1.Z,
		}
		e2 := Vec3{
			X: tri.V3.X - tri.V1.X,
			Y: tri.V3.Y - tri.V1.Y,
			Z: tri.V3.Z - tri.V1.Z,
		}

		// Cross product of the edges: twice the facet's area vector
		n := Vec3{
			X: e1.Y*e2.Z - e1.Z*e2.Y,
			Y: e1.Z*e2.X - e1.X*e2.Z,
			Z: e1.X*e2.Y - e1.Y*e2.X,
		}

		area += math.Sqrt(n.X*n.X+n.Y*n.Y+n.Z*n.Z) / 2

		// Facet centroid
		cx := (tri.V1.X + tri.V2.X + tri.V3.X) / 3
		cy := (tri.V1.Y + tri.V2.Y + tri.V3.Y) / 3
		cz := (tri.V1.Z + tri.V2.Z + tri.V3.Z) / 3

		vx += n.X * cx / 2
		vy += n.Y * cy / 2
		vz += n.Z * cz / 2
	}

	volume := (vx + vy + vz) / 3

	return &MassProperties{
		surfaceArea:          area,
		volume:               volume,
		volumeProjected:      vz,
		normalizedShapeIndex: math.Sqrt(area) / math.Cbrt(volume) / nsiNormalization,
	}, nil
}
