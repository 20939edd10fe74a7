package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"voxelfit/internal/geomfile"
	"voxelfit/pkg/config"
	"voxelfit/pkg/grid"
	"voxelfit/pkg/mesh"
	"voxelfit/pkg/oversampling"
)

func main() {
	// Parse command line arguments
	meshPath := flag.String("mesh", "", "STL surface to plan rasterization for")
	geometryPath := flag.String("geometry", "", "Reference grid geometry YAML (default: geometry from config)")
	outPath := flag.String("out", "", "Write the resulting grid geometry YAML to this path")
	configPath := flag.String("config", "voxelfit.yaml", "Configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logSpeed := flag.Bool("log-speed", false, "Log timing of the calculation stages")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default configuration: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	// Validate inputs
	if *meshPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := initLogger(*debug || cfg.Logging.Debug)

	fmt.Println("================================")
	fmt.Println("VOXELFIT: OVERSAMPLING FACTOR CALCULATION FOR SURFACE RASTERIZATION")
	fmt.Println("Fuzzy inference on relative structure size and shape complexity")
	fmt.Println("================================")

	surface, err := mesh.LoadSTL(*meshPath)
	if err != nil {
		logger.Fatalf("Failed to load mesh: %v", err)
	}

	geometry := referenceGeometry(cfg)
	if *geometryPath != "" {
		geometry, err = geomfile.Load(*geometryPath)
		if err != nil {
			logger.Fatalf("Failed to load reference geometry: %v", err)
		}
	}

	params := &oversampling.Params{
		Surface:              surface,
		ReferenceGeometry:    geometry,
		LogSpeedMeasurements: *logSpeed || cfg.Calculation.LogSpeedMeasurements,
	}

	calculator := oversampling.NewCalculator(params, logger)

	fmt.Println("Starting oversampling calculation...")
	startTime := time.Now()
	if err := calculator.Calculate(); err != nil {
		logger.Fatalf("Oversampling calculation failed: %v", err)
	}
	elapsed := time.Since(startTime)

	dims := geometry.Dimensions()
	fmt.Printf("\nOversampling calculation completed in %.3f seconds!\n\n", elapsed.Seconds())
	fmt.Printf("Input mesh: %s (%d triangles)\n", *meshPath, surface.TriangleCount())
	fmt.Printf("Reference grid: %d x %d x %d voxels\n", dims[0], dims[1], dims[2])
	fmt.Printf("Size measure: %.4f\n", calculator.SizeMeasure())
	fmt.Printf("Complexity measure: %.4f\n", calculator.ComplexityMeasure())
	fmt.Printf("Oversampling factor: %g\n", calculator.Factor())

	if cfg.Calculation.Apply {
		oversampling.ApplyFactor(geometry, calculator.Factor(), logger)

		dims = geometry.Dimensions()
		spacing := geometry.Spacing()
		origin := geometry.Origin()
		fmt.Println("\nReference geometry after oversampling:")
		fmt.Printf("- Dimensions: %d x %d x %d voxels\n", dims[0], dims[1], dims[2])
		fmt.Printf("- Spacing: %.4f x %.4f x %.4f mm\n", spacing[0], spacing[1], spacing[2])
		fmt.Printf("- Origin: (%.4f, %.4f, %.4f)\n", origin[0], origin[1], origin[2])
	}

	if *outPath != "" {
		if err := geomfile.Save(geometry, *outPath); err != nil {
			logger.Fatalf("Failed to save grid geometry: %v", err)
		}
		fmt.Printf("\nGrid geometry saved to: %s\n", *outPath)
	}
}

// initLogger configures logging output: structured JSON for regular runs and
// human readable colored output in debug mode.
func initLogger(debug bool) *logrus.Logger {
	logger := logrus.New()

	if debug {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// referenceGeometry builds the fallback reference grid from the
// configuration.
func referenceGeometry(cfg *config.Config) *grid.Geometry {
	g := grid.NewGeometry()
	g.SetExtent([6]int{
		0, cfg.Reference.Dimensions[0] - 1,
		0, cfg.Reference.Dimensions[1] - 1,
		0, cfg.Reference.Dimensions[2] - 1,
	})
	g.SetSpacing(cfg.Reference.Spacing)
	g.SetOrigin(cfg.Reference.Origin)
	return g
}
