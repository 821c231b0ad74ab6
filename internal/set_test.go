package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetSortedUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Set[float64]
		want Set[float64]
	}{
		{"disjoint", Set[float64]{0, 2}, Set[float64]{1, 3}, Set[float64]{0, 1, 2, 3}},
		{"multiplicities", Set[float64]{0, 0, 1, 1}, Set[float64]{0, 1, 1, 1}, Set[float64]{0, 0, 1, 1, 1}},
		{"within epsilon", Set[float64]{0.5}, Set[float64]{0.5 + 1e-12}, Set[float64]{0.5}},
		{"empty", nil, Set[float64]{1}, Set[float64]{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SortedUnion(tt.b))
		})
	}
}

func TestSetSortedSub(t *testing.T) {
	tests := []struct {
		name string
		a, b Set[float64]
		want Set[float64]
	}{
		{"one to one", Set[float64]{0, 0, 0.5, 0.5, 1}, Set[float64]{0, 0.5}, Set[float64]{0, 0.5, 1}},
		{"nothing removed", Set[float64]{0, 1}, nil, Set[float64]{0, 1}},
		{"everything removed", Set[float64]{0.25, 0.75}, Set[float64]{0.25, 0.75}, Set[float64]{}},
		{"within epsilon", Set[float64]{0.3, 0.6}, Set[float64]{0.3 + 1e-12}, Set[float64]{0.6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SortedSub(tt.b))
		})
	}
}

func TestSetFloat32(t *testing.T) {
	a := Set[float32]{0, 0.5, 1}
	b := Set[float32]{0.5, 0.75}
	union := a.SortedUnion(b)
	assert.Equal(t, Set[float32]{0, 0.5, 0.75, 1}, union)
	assert.Equal(t, a, union.SortedSub(Set[float32]{0.75}))
}
