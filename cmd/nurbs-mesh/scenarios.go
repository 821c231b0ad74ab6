package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/construct"
	"github.com/alexozer/nurbs/geom"
)

type scenario struct {
	name  string
	desc  string
	build func() (*nurbs.NurbsSurface[float64], error)
}

var scenarios = []scenario{
	{"outline", "degree 3 interpolation of a house outline, extruded along z", buildOutline},
	{"loft", "loft of a circle and a rotated, raised copy", buildLoft},
	{"extrude", "interpolated unit square extruded by (0, 0, 1)", buildExtrude},
	{"plane", "bicubic four point plane", buildPlane},
	{"cylinder", "cylinder of radius 1 and height 2", buildCylinder},
}

func findScenarios(name string) ([]scenario, error) {
	if name == "all" {
		return scenarios, nil
	}
	for _, s := range scenarios {
		if s.name == name {
			return []scenario{s}, nil
		}
	}
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.name
	}
	return nil, fmt.Errorf("unknown scenario %q, expected all or one of %s", name, strings.Join(names, ", "))
}

var houseOutline = []geom.Vec3[float64]{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0.5, 1.5, 0},
	{0, 1, 0},
	{0, 0.5, 0},
}

var unitSquare = []geom.Vec3[float64]{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 0},
}

func buildOutline() (*nurbs.NurbsSurface[float64], error) {
	crv, err := nurbs.Interpolate(houseOutline, 3)
	if err != nil {
		return nil, err
	}
	return construct.Extrude(crv, geom.V3(0.0, 0, 0.5))
}

func buildLoft() (*nurbs.NurbsSurface[float64], error) {
	base, err := construct.Circle(geom.V3(0.0, 0, 0), geom.V3(1.0, 0, 0), geom.V3(0.0, 1, 0), 1)
	if err != nil {
		return nil, err
	}

	m := mat4.Ident
	m[0] = [4]float64{math.Cos(math.Pi / 4), math.Sin(math.Pi / 4), 0, 0}
	m[1] = [4]float64{-math.Sin(math.Pi / 4), math.Cos(math.Pi / 4), 0, 0}
	m.SetTranslation(&vec3.T{0, 0, 3})
	top := base.Transformed(geom.Go3D(&m))

	return construct.Loft([]*nurbs.NurbsCurve[float64]{base, top}, 3)
}

func buildExtrude() (*nurbs.NurbsSurface[float64], error) {
	crv, err := nurbs.Interpolate(unitSquare, 3)
	if err != nil {
		return nil, err
	}
	return construct.Extrude(crv, geom.V3(0.0, 0, 1))
}

func buildPlane() (*nurbs.NurbsSurface[float64], error) {
	return construct.FourPointSurface(
		geom.V3(0.0, 0, 0), geom.V3(1.0, 0, 0), geom.V3(1.0, 1, 0), geom.V3(0.0, 1, 0), 3)
}

func buildCylinder() (*nurbs.NurbsSurface[float64], error) {
	return construct.CylindricalSurface(geom.V3(0.0, 0, 1), geom.V3(1.0, 0, 0), geom.V3(0.0, 0, 0), 2, 1)
}
