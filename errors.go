package nurbs

import (
	"errors"
	"fmt"
)

// Common errors returned by the engine.
var (
	// ErrParameterOutOfDomain indicates a parameter outside the domain of a
	// curve or surface evaluated with DomainStrict, or a NaN parameter.
	ErrParameterOutOfDomain = errors.New("parameter out of domain")

	// ErrInvalidDegree indicates a degree below one or too large for the
	// number of control points.
	ErrInvalidDegree = errors.New("invalid degree")

	// ErrInvalidKnotVector indicates a knot vector that is decreasing, has
	// the wrong length or carries an excessive multiplicity.
	ErrInvalidKnotVector = errors.New("invalid knot vector")

	// ErrInvalidWeight indicates a non-positive or NaN control point weight.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrDegenerateInterpolation indicates an interpolation problem with too
	// few or coincident points, or a singular system.
	ErrDegenerateInterpolation = errors.New("degenerate interpolation")

	// ErrSingularSystem is returned by a LinearSolver for a singular or
	// numerically ill-conditioned matrix.
	ErrSingularSystem = errors.New("singular linear system")

	// ErrIncompatibleCurves indicates curves that cannot be lofted.
	ErrIncompatibleCurves = errors.New("incompatible curves")

	// ErrDegenerateDirection indicates a zero extrusion direction.
	ErrDegenerateDirection = errors.New("degenerate direction")

	// ErrInvalidConfig indicates invalid tessellation options.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParameterOutOfDomainError reports the offending parameter together with
// the domain it was checked against. It matches ErrParameterOutOfDomain.
type ParameterOutOfDomainError struct {
	U        float64
	Min, Max float64
}

func (e *ParameterOutOfDomainError) Error() string {
	return fmt.Sprintf("%v: %g not in [%g, %g]", ErrParameterOutOfDomain, e.U, e.Min, e.Max)
}

func (e *ParameterOutOfDomainError) Is(target error) bool {
	return target == ErrParameterOutOfDomain
}
