// Command nurbs-mesh builds a set of reference surfaces and tessellates
// them, printing mesh and subdivision statistics.
//
// Usage:
//
//	nurbs-mesh                              # every scenario with default options
//	nurbs-mesh -scenario loft -tol 1e-3     # one scenario, finer tolerance
//	nurbs-mesh -scenario plane -min-depth 3 # force uniform subdivision
//	nurbs-mesh -v                           # debug logging from the engine
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/alexozer/nurbs"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := nurbs.DefaultAdaptiveTessellationOptions()

	name := flag.String("scenario", "all", "Scenario to tessellate: all, outline, loft, extrude, plane, cylinder")
	tol := flag.Float64("tol", defaults.NormTolerance, "Normal tolerance for subdivision")
	minDepth := flag.Int("min-depth", defaults.MinDepth, "Minimum subdivision depth")
	maxDepth := flag.Int("max-depth", defaults.MaxDepth, "Maximum subdivision depth")
	divsU := flag.Int("divs-u", defaults.MinDivsU, "Root cells along u")
	divsV := flag.Int("divs-v", defaults.MinDivsV, "Root cells along v")
	workers := flag.Int("workers", 0, "Worker goroutines, 0 uses GOMAXPROCS")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *verbose {
		nurbs.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := &nurbs.AdaptiveTessellationOptions{
		NormTolerance: *tol,
		MinDepth:      *minDepth,
		MaxDepth:      *maxDepth,
		MinDivsU:      *divsU,
		MinDivsV:      *divsV,
		Workers:       *workers,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	selected, err := findScenarios(*name)
	if err != nil {
		return err
	}

	for _, s := range selected {
		if *verbose {
			log.Printf("Scenario %s: %s", s.name, s.desc)
		}
		if err := tessellate(s, opts); err != nil {
			return fmt.Errorf("scenario %s: %w", s.name, err)
		}
	}
	return nil
}

func tessellate(s scenario, opts *nurbs.AdaptiveTessellationOptions) error {
	srf, err := s.build()
	if err != nil {
		return err
	}

	start := time.Now()
	mesh, stats, err := srf.TessellateWithStats(opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	box := mesh.Bounds()
	fmt.Printf("%s\n", s.name)
	fmt.Printf("  degree (%d, %d), %d x %d control points\n",
		srf.DegreeU(), srf.DegreeV(), len(srf.ControlPoints()), len(srf.ControlPoints()[0]))
	fmt.Printf("  %d vertices, %d triangles in %v\n", mesh.VertexCount(), mesh.TriangleCount(), elapsed)
	fmt.Printf("  %d cells, %d leaves, depth %d, %d capped, %d degenerate, %d welded\n",
		stats.Cells, stats.Leaves, stats.Depth, stats.Capped, stats.Degenerate, stats.Welded)
	fmt.Printf("  bounds [%.3f %.3f %.3f] - [%.3f %.3f %.3f]\n",
		box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	return nil
}
