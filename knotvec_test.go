package nurbs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approxKnots = cmpopts.EquateApprox(0, 1e-12)

func TestKnotVectorSpan(t *testing.T) {
	// P&T example 2.3
	kv := KnotVector[float64]{0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5}
	const p = 2

	tests := []struct {
		u    float64
		want int
	}{
		{0, 2},
		{0.5, 2},
		{1, 3},
		{2.5, 4},
		{4, 7},
		{4.9, 7},
		{5, 7},
		{-1, 2},
		{6, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, kv.Span(p, tt.u), "u=%v", tt.u)
	}
}

func TestKnotVectorFindSpanPolicy(t *testing.T) {
	kv := KnotVector[float64]{0, 0, 0, 0.5, 1, 1, 1}

	span, err := kv.FindSpan(2, 1.5, DomainClamp)
	require.NoError(t, err)
	assert.Equal(t, 3, span)

	_, err = kv.FindSpan(2, 1.5, DomainStrict)
	assert.ErrorIs(t, err, ErrParameterOutOfDomain)

	var domErr *ParameterOutOfDomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, 1.5, domErr.U)
	assert.Equal(t, 0.0, domErr.Min)
	assert.Equal(t, 1.0, domErr.Max)

	// within epsilon of the end is still in the domain
	_, err = kv.FindSpan(2, 1+1e-12, DomainStrict)
	assert.NoError(t, err)
}

func TestCheckParameterNonFinite(t *testing.T) {
	for _, policy := range []DomainPolicy{DomainClamp, DomainStrict} {
		_, err := checkParameter(nan(), 0.0, 1, policy)
		assert.ErrorIs(t, err, ErrParameterOutOfDomain, policy.String())
	}
}

func TestKnotVectorValidate(t *testing.T) {
	tests := []struct {
		name    string
		kv      KnotVector[float64]
		degree  int
		numCP   int
		wantErr error
	}{
		{"valid clamped", KnotVector[float64]{0, 0, 0, 0.5, 1, 1, 1}, 2, 4, nil},
		{"valid unclamped", KnotVector[float64]{0, 1, 2, 3, 4, 5, 6}, 2, 4, nil},
		{"degree zero", KnotVector[float64]{0, 0, 1, 1}, 0, 3, ErrInvalidDegree},
		{"too few points", KnotVector[float64]{0, 0, 0, 1, 1, 1}, 3, 2, ErrInvalidDegree},
		{"wrong length", KnotVector[float64]{0, 0, 0, 1, 1}, 2, 3, ErrInvalidKnotVector},
		{"decreasing", KnotVector[float64]{0, 0, 0, 0.7, 0.3, 1, 1, 1}, 2, 5, ErrInvalidKnotVector},
		{"interior multiplicity", KnotVector[float64]{0, 0, 0, 0.5, 0.5, 0.5, 1, 1, 1}, 2, 6, ErrInvalidKnotVector},
		{"end multiplicity", KnotVector[float64]{0, 0, 0, 0, 1, 1, 1}, 2, 4, ErrInvalidKnotVector},
		{"non-finite", KnotVector[float64]{0, 0, 0, nan(), 1, 1, 1}, 2, 4, ErrInvalidKnotVector},
		{"minimal line", KnotVector[float64]{0, 0, 1, 1}, 1, 2, nil},
		{"collapsed", KnotVector[float64]{1, 1, 1, 1}, 1, 2, ErrInvalidKnotVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kv.Validate(tt.degree, tt.numCP)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKnotVectorMultiplicities(t *testing.T) {
	kv := KnotVector[float64]{0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1}
	assert.Equal(t, []KnotMultiplicity[float64]{
		{0, 3}, {0.25, 1}, {0.5, 2}, {1, 3},
	}, kv.Multiplicities())
	assert.Equal(t, 2, kv.Multiplicity(0.5))
	assert.Equal(t, 0, kv.Multiplicity(0.75))
	assert.Nil(t, KnotVector[float64](nil).Multiplicities())

	assert.True(t, kv.IsClamped(2))
	assert.False(t, kv.IsClamped(3))
	assert.False(t, KnotVector[float64]{0, 1, 2, 3, 4, 5}.IsClamped(2))
}

func TestKnotVectorRescaledReversed(t *testing.T) {
	kv := KnotVector[float64]{0, 0, 1, 3, 4, 4}

	got := kv.Rescaled(-1, 1)
	if diff := cmp.Diff(KnotVector[float64]{-1, -1, -0.5, 0.5, 1, 1}, got, approxKnots); diff != "" {
		t.Errorf("Rescaled mismatch (-want +got):\n%s", diff)
	}

	rev := kv.Reversed()
	if diff := cmp.Diff(KnotVector[float64]{0, 0, 1, 3, 4, 4}, rev, approxKnots); diff != "" {
		t.Errorf("Reversed of a symmetric vector (-want +got):\n%s", diff)
	}
	rev = KnotVector[float64]{0, 0, 1, 4, 4}.Reversed()
	if diff := cmp.Diff(KnotVector[float64]{0, 0, 3, 4, 4}, rev, approxKnots); diff != "" {
		t.Errorf("Reversed mismatch (-want +got):\n%s", diff)
	}
}

func TestKnotVectorUnify(t *testing.T) {
	a := KnotVector[float64]{0, 0, 0, 0.5, 1, 1, 1}
	b := KnotVector[float64]{0, 0, 0.25, 0.5, 0.5, 1, 1}

	merged := a.Unify(b)
	want := KnotVector[float64]{0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1}
	if diff := cmp.Diff(want, merged, approxKnots); diff != "" {
		t.Errorf("Unify mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(KnotVector[float64]{0.25, 0.5}, merged.Difference(a), approxKnots); diff != "" {
		t.Errorf("Difference mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(KnotVector[float64]{0, 1}, merged.Difference(b), approxKnots); diff != "" {
		t.Errorf("Difference mismatch (-want +got):\n%s", diff)
	}
}

func TestKnotVectorInsertKnot(t *testing.T) {
	kv := KnotVector[float64]{0, 0, 0, 0.5, 1, 1, 1}

	out, ins, err := kv.InsertKnot(2, 0.25, 1)
	require.NoError(t, err)
	assert.Equal(t, KnotVector[float64]{0, 0, 0, 0.25, 0.5, 1, 1, 1}, out)
	assert.Equal(t, 1, ins.Times)
	assert.Equal(t, 2, ins.Span)

	// multiplicity is capped at the degree
	out, ins, err = kv.InsertKnot(2, 0.5, 5)
	require.NoError(t, err)
	assert.Equal(t, KnotVector[float64]{0, 0, 0, 0.5, 0.5, 1, 1, 1}, out)
	assert.Equal(t, 1, ins.Times)

	// already at full multiplicity
	out, ins, err = kv.InsertKnot(2, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, kv, out)
	assert.Zero(t, ins.Times)

	_, _, err = kv.InsertKnot(2, 2, 1)
	assert.ErrorIs(t, err, ErrParameterOutOfDomain)

	_, err = ApplyKnotInsertion(ins, []float64{1, 2}, func(a, b float64, t float64) float64 { return a + (b-a)*t })
	assert.ErrorIs(t, err, ErrInvalidKnotVector)
}

func TestRefineKnotsScalar(t *testing.T) {
	// a degree 2 scalar spline reproducing u², refined twice
	kv := KnotVector[float64]{0, 0, 0, 1, 1, 1}
	pts := []float64{0, 0, 1}
	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }

	knots, refined, err := RefineKnots(kv, 2, pts, []float64{0.25, 0.5, 0.5}, lerp)
	require.NoError(t, err)
	assert.Equal(t, KnotVector[float64]{0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1}, knots)
	require.Len(t, refined, 6)

	for _, u := range []float64{0, 0.1, 0.25, 0.4, 0.5, 0.8, 1} {
		span := knots.Span(2, u)
		n := BasisFunctions(span, u, 2, knots)
		var got float64
		for i, b := range n {
			got += b * refined[span-2+i]
		}
		assert.InDelta(t, u*u, got, 1e-12, "u=%v", u)
	}

	_, _, err = RefineKnots(kv, 2, pts, []float64{0.5, 0.25}, lerp)
	assert.ErrorIs(t, err, ErrInvalidKnotVector)
	_, _, err = RefineKnots(kv, 2, pts, []float64{1.5}, lerp)
	assert.ErrorIs(t, err, ErrParameterOutOfDomain)
	_, _, err = RefineKnots(kv, 2, pts[:2], []float64{0.5}, lerp)
	assert.ErrorIs(t, err, ErrInvalidKnotVector)
}

func TestDomainPolicyString(t *testing.T) {
	assert.Equal(t, "clamp", DomainClamp.String())
	assert.Equal(t, "strict", DomainStrict.String())
	assert.Equal(t, "DomainPolicy(7)", DomainPolicy(7).String())
}
