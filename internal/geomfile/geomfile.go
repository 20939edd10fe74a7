// Package geomfile reads and writes grid geometry descriptions as YAML
// files.
package geomfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"voxelfit/pkg/grid"
)

// Document is the on-disk form of a grid geometry.
type Document struct {
	// Extent is the inclusive voxel index range as min/max pairs per axis
	Extent [6]int `yaml:"extent"`

	// Spacing is the voxel size per axis in mm
	Spacing [3]float64 `yaml:"spacing"`

	// Origin is the world position of the first voxel center in mm
	Origin [3]float64 `yaml:"origin"`

	// Direction holds the grid axis directions as three rows. A zero matrix
	// reads as identity, so the field can be omitted.
	Direction [3][3]float64 `yaml:"direction,omitempty"`

	// ScalarType names the voxel component storage type, uint8 when empty
	ScalarType string `yaml:"scalarType,omitempty"`

	// Components is the number of scalar components per voxel, 1 when zero
	Components int `yaml:"components,omitempty"`
}

// Geometry builds the grid described by the document.
func (d *Document) Geometry() (*grid.Geometry, error) {
	for axis := 0; axis < 3; axis++ {
		if d.Spacing[axis] <= 0 {
			return nil, fmt.Errorf("spacing must be positive on every axis, got %v", d.Spacing)
		}
	}

	scalarType := grid.UInt8
	if d.ScalarType != "" {
		var err error
		scalarType, err = grid.ParseScalarType(d.ScalarType)
		if err != nil {
			return nil, err
		}
	}

	components := d.Components
	if components == 0 {
		components = 1
	}
	if components < 0 {
		return nil, fmt.Errorf("components must be positive, got %d", d.Components)
	}

	g := grid.NewGeometry()
	g.SetExtent(d.Extent)
	g.SetSpacing(d.Spacing)
	g.SetOrigin(d.Origin)

	if d.Direction != ([3][3]float64{}) {
		flat := make([]float64, 0, 9)
		for _, row := range d.Direction {
			flat = append(flat, row[:]...)
		}
		if err := g.SetDirection(mat.NewDense(3, 3, flat)); err != nil {
			return nil, err
		}
	}

	g.AllocateScalars(scalarType, components)
	return g, nil
}

// FromGeometry captures the grid's geometry as a document.
func FromGeometry(g *grid.Geometry) *Document {
	d := &Document{
		Extent:     g.Extent(),
		Spacing:    g.Spacing(),
		Origin:     g.Origin(),
		ScalarType: g.ScalarType().String(),
		Components: g.Components(),
	}

	direction := g.Direction()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			d.Direction[row][col] = direction.At(row, col)
		}
	}
	return d
}

// Load reads a geometry file and builds the grid it describes.
func Load(path string) (*grid.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading geometry file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing geometry file: %w", err)
	}

	g, err := doc.Geometry()
	if err != nil {
		return nil, fmt.Errorf("invalid geometry in %s: %w", path, err)
	}
	return g, nil
}

// Save writes the grid's geometry to a YAML file.
func Save(g *grid.Geometry, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating geometry directory: %w", err)
	}

	data, err := yaml.Marshal(FromGeometry(g))
	if err != nil {
		return fmt.Errorf("error marshaling geometry: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing geometry file: %w", err)
	}

	return nil
}
