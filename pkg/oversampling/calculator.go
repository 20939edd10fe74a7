// Package oversampling derives how much finer than its reference grid a
// surface should be rasterized. Two crisp measures, the relative structure
// size and the shape complexity, feed a small Mamdani style rule base whose
// defuzzified output is a power of two oversampling factor.
package oversampling

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"voxelfit/pkg/grid"
	"voxelfit/pkg/mesh"
)

// InvalidMeasure marks a measure that could not be computed.
const InvalidMeasure = -1.0

// MassProperties provides the surface measurements the calculator consumes.
type MassProperties interface {
	EnclosedVolume() float64
	ProjectedVolume() float64
	NormalizedShapeIndex() float64
}

// Params holds the input parameters for an oversampling calculation.
type Params struct {
	// Surface is the closed mesh whose rasterization is being planned.
	Surface *mesh.Surface
	// ReferenceGeometry is the grid the surface would be rasterized into.
	ReferenceGeometry *grid.Geometry
	// LogSpeedMeasurements enables debug timing of the calculation stages.
	LogSpeedMeasurements bool
}

// Calculator computes the oversampling factor for a surface and a reference
// grid.
type Calculator struct {
	params *Params
	logger *logrus.Logger

	massProperties    MassProperties
	sizeMeasure       float64
	complexityMeasure float64
	factor            float64
}

// NewCalculator creates a new calculator with the given parameters.
func NewCalculator(params *Params, logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Calculator{
		params:            params,
		logger:            logger,
		sizeMeasure:       InvalidMeasure,
		complexityMeasure: InvalidMeasure,
		factor:            1.0,
	}
}

// Factor returns the factor of the last calculation, or the safe value 1
// when no calculation has succeeded yet.
func (c *Calculator) Factor() float64 {
	return c.factor
}

// SizeMeasure returns the size measure of the last calculation, or
// InvalidMeasure.
func (c *Calculator) SizeMeasure() float64 {
	return c.sizeMeasure
}

// ComplexityMeasure returns the complexity measure of the last calculation,
// or InvalidMeasure.
func (c *Calculator) ComplexityMeasure() float64 {
	return c.complexityMeasure
}

// SetMassProperties overrides the measured surface properties. Calculate
// replaces them with fresh measurements of the input surface.
func (c *Calculator) SetMassProperties(p MassProperties) {
	c.massProperties = p
}

// Calculate measures the input surface and runs the fuzzy inference. The
// factor is reset to the safe value 1 first, so it is usable even when the
// returned error is ignored.
func (c *Calculator) Calculate() error {
	c.factor = 1.0

	if c.params == nil || c.params.Surface == nil {
		return fmt.Errorf("no input surface to measure")
	}
	if c.params.ReferenceGeometry == nil {
		return fmt.Errorf("no reference grid geometry")
	}

	start := time.Now()

	props, err := mesh.ComputeMassProperties(c.params.Surface)
	if err != nil {
		return fmt.Errorf("error measuring surface: %w", err)
	}
	c.massProperties = props

	c.sizeMeasure = c.ComputeSizeMeasure()
	if c.sizeMeasure == InvalidMeasure {
		return fmt.Errorf("failed to calculate size measure")
	}

	c.complexityMeasure = c.ComputeComplexityMeasure()
	if c.complexityMeasure == InvalidMeasure {
		return fmt.Errorf("failed to calculate complexity measure")
	}

	inferenceStart := time.Now()
	c.factor = Infer(c.sizeMeasure, c.complexityMeasure)

	c.logger.Debugf("Automatic oversampling factor of %g calculated", c.factor)

	if c.params.LogSpeedMeasurements {
		end := time.Now()
		c.logger.WithFields(logrus.Fields{
			"total":     end.Sub(start),
			"measures":  inferenceStart.Sub(start),
			"inference": end.Sub(inferenceStart),
		}).Debug("Oversampling calculation timing")
	}

	return nil
}

// ComputeSizeMeasure maps the surface volume relative to the reference grid
// volume onto the fuzzy size scale. Larger values mean smaller structures.
// Returns InvalidMeasure when inputs are missing.
func (c *Calculator) ComputeSizeMeasure() float64 {
	if c.params == nil || c.params.Surface == nil || c.params.ReferenceGeometry == nil || c.massProperties == nil {
		return InvalidMeasure
	}

	structureVolume := c.massProperties.EnclosedVolume()

	// Cross-check the two volume integrals against each other.
	projectedVolume := c.massProperties.ProjectedVolume()
	if (structureVolume-projectedVolume)*10000 > structureVolume {
		c.logger.Warn("Structure volume may be invalid, projected and enclosed volumes disagree")
	}

	dims := c.params.ReferenceGeometry.Dimensions()
	spacing := c.params.ReferenceGeometry.Spacing()
	gridVolume := float64(dims[0]*dims[1]*dims[2]) * spacing[0] * spacing[1] * spacing[2]

	relativeSize := structureVolume / gridVolume
	sizeMeasure := -math.Log10(relativeSize)
	c.logger.WithFields(logrus.Fields{
		"relative_size": relativeSize,
		"size_measure":  sizeMeasure,
	}).Debug("Relative structure size calculated")

	return sizeMeasure
}

// ComputeComplexityMeasure maps the normalized shape index onto the fuzzy
// complexity scale. Returns InvalidMeasure when inputs are missing.
func (c *Calculator) ComputeComplexityMeasure() float64 {
	if c.params == nil || c.params.Surface == nil || c.massProperties == nil {
		return InvalidMeasure
	}

	// A sphere scores exactly 1 and every other closed shape more, so the
	// complexity scale starts at the spherical baseline. Degenerate meshes
	// can land below it and clamp to zero.
	shapeIndex := c.massProperties.NormalizedShapeIndex()
	complexityMeasure := math.Max(shapeIndex-1.0, 0.0)

	c.logger.WithFields(logrus.Fields{
		"shape_index": shapeIndex,
		"complexity":  complexityMeasure,
	}).Debug("Complexity measure calculated")

	return complexityMeasure
}
