package nurbs

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/alexozer/nurbs/geom"
)

// maxTessellationDepth bounds MaxDepth so lattice coordinates fit in int64.
const maxTessellationDepth = 30

// AdaptiveTessellationOptions configures adaptive surface tessellation.
type AdaptiveTessellationOptions struct {
	// NormTolerance is the largest squared distance between two unit
	// normals, compared at the corners and center of a patch, that still
	// counts as flat.
	NormTolerance float64

	// MinDepth forces every root cell to be subdivided at least this many
	// times.
	MinDepth int

	// MaxDepth stops subdivision. Patches that would still need refining
	// at this depth are kept and reported in TessellationStats.Capped.
	MaxDepth int

	// MinDivsU and MinDivsV split the domain into a grid of root cells
	// before adaptive subdivision starts. The grid always has at least
	// twice as many cells as the control net has spans in each direction.
	MinDivsU, MinDivsV int

	// Workers bounds the goroutines subdividing root cells in parallel.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// DefaultAdaptiveTessellationOptions returns the default options.
func DefaultAdaptiveTessellationOptions() *AdaptiveTessellationOptions {
	return &AdaptiveTessellationOptions{
		NormTolerance: 2.5e-2,
		MinDepth:      0,
		MaxDepth:      8,
		MinDivsU:      1,
		MinDivsV:      1,
		Workers:       runtime.GOMAXPROCS(0),
	}
}

// Validate checks the options.
func (o *AdaptiveTessellationOptions) Validate() error {
	if !(o.NormTolerance > 0) || math.IsInf(o.NormTolerance, 0) {
		return fmt.Errorf("%w: norm tolerance must be positive, got %v", ErrInvalidConfig, o.NormTolerance)
	}
	if o.MinDepth < 0 {
		return fmt.Errorf("%w: min depth must not be negative", ErrInvalidConfig)
	}
	if o.MaxDepth < o.MinDepth {
		return fmt.Errorf("%w: max depth %d is below min depth %d", ErrInvalidConfig, o.MaxDepth, o.MinDepth)
	}
	if o.MaxDepth > maxTessellationDepth {
		return fmt.Errorf("%w: max depth %d exceeds %d", ErrInvalidConfig, o.MaxDepth, maxTessellationDepth)
	}
	if o.MinDivsU < 1 || o.MinDivsV < 1 {
		return fmt.Errorf("%w: min divisions must be at least 1", ErrInvalidConfig)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// TessellationStats describes the result of an adaptive tessellation.
type TessellationStats struct {
	Cells int
	// Leaves is the number of patches that were triangulated.
	Leaves int
	// Depth is the deepest subdivision level reached.
	Depth int
	// Capped counts patches left unrefined because MaxDepth was reached.
	Capped int
	// Degenerate counts patches with an undefined normal at a corner.
	Degenerate int
	// Welded counts vertices merged into a coincident one.
	Welded int
}

func (s *TessellationStats) add(o TessellationStats) {
	s.Leaves += o.Leaves
	s.Depth = max(s.Depth, o.Depth)
	s.Capped += o.Capped
	s.Degenerate += o.Degenerate
}

// Tessellate triangulates the surface adaptively: patches are subdivided
// until their normals vary by less than the tolerance, and neighboring
// patches of different size are stitched so the mesh has no cracks.
// A nil opts uses DefaultAdaptiveTessellationOptions.
func (s *NurbsSurface[T]) Tessellate(opts *AdaptiveTessellationOptions) (*Mesh[T], error) {
	mesh, _, err := s.TessellateWithStats(opts)
	return mesh, err
}

// TessellateWithStats is Tessellate that also reports subdivision
// statistics.
func (s *NurbsSurface[T]) TessellateWithStats(opts *AdaptiveTessellationOptions) (*Mesh[T], TessellationStats, error) {
	if opts == nil {
		opts = DefaultAdaptiveTessellationOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, TessellationStats{}, err
	}

	t := newTessellator(s, opts)
	cells := t.subdivide()

	stats := TessellationStats{Cells: len(cells)}
	for _, c := range cells {
		stats.add(c.stats)
	}
	mesh, welded := t.stitch(cells)
	stats.Welded = welded

	log := Logger()
	if stats.Capped > 0 {
		log.Debug("nurbs: tessellation reached max depth",
			"capped", stats.Capped,
			"maxDepth", opts.MaxDepth,
		)
	}
	log.Debug("nurbs: tessellated surface",
		"cells", stats.Cells,
		"leaves", stats.Leaves,
		"depth", stats.Depth,
		"welded", stats.Welded,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
	)
	return mesh, stats, nil
}

// tessellator holds the state shared by all root cells. Parametric
// locations are addressed on an integer lattice fine enough to hold the
// centers of the deepest patches, so shared corners compare exactly.
type tessellator[T geom.Float] struct {
	srf  *NurbsSurface[T]
	opts *AdaptiveTessellationOptions

	// cell is the lattice size of a root cell
	cell         int64
	totalU       int64
	totalV       int64
	ulo, uhi     T
	vlo, vhi     T
	divsU, divsV int
}

func newTessellator[T geom.Float](s *NurbsSurface[T], opts *AdaptiveTessellationOptions) *tessellator[T] {
	t := &tessellator[T]{
		srf:   s,
		opts:  opts,
		cell: int64(1) << (opts.MaxDepth + 1),
		// the control net bounds how much the surface can turn inside a
		// root cell, so the grid is never coarser than twice its spans
		divsU: max(opts.MinDivsU, (len(s.controlPoints)-1)*2),
		divsV: max(opts.MinDivsV, (len(s.controlPoints[0])-1)*2),
	}
	t.totalU = t.cell * int64(t.divsU)
	t.totalV = t.cell * int64(t.divsV)
	t.ulo, t.uhi = s.DomainU()
	t.vlo, t.vhi = s.DomainV()
	return t
}

// uv converts a lattice location to surface parameters.
func (t *tessellator[T]) uv(k latticeKey) geom.UV[T] {
	return geom.UV[T]{
		latticeParam(k.u, t.totalU, t.ulo, t.uhi),
		latticeParam(k.v, t.totalV, t.vlo, t.vhi),
	}
}

func latticeParam[T geom.Float](i, total int64, lo, hi T) T {
	if i >= total {
		return hi
	}
	f := float64(i) / float64(total)
	return T(float64(lo) + (float64(hi)-float64(lo))*f)
}

// subdivide refines every root cell with a bounded pool of workers and
// waits for all of them before returning.
func (t *tessellator[T]) subdivide() []*cellResult[T] {
	numCells := t.divsU * t.divsV
	results := make([]*cellResult[T], numCells)

	workers := t.opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, numCells)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				i, j := idx/t.divsV, idx%t.divsV
				results[idx] = t.subdivideCell(int64(i)*t.cell, int64(j)*t.cell)
			}
		}()
	}
	for idx := 0; idx < numCells; idx++ {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
