package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifference(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want []string
	}{
		{name: "both empty", a: nil, b: nil, want: []string{}},
		{name: "b empty", a: []string{"x", "y"}, b: nil, want: []string{"x", "y"}},
		{name: "a empty", a: nil, b: []string{"x"}, want: []string{}},
		{name: "identical", a: []string{"x", "y"}, b: []string{"y", "x"}, want: []string{}},
		{name: "keeps order of a", a: []string{"c", "a", "b"}, b: []string{"a"}, want: []string{"c", "b"}},
		{name: "duplicates in a survive", a: []string{"x", "x", "y"}, b: []string{"y"}, want: []string{"x", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Difference(tt.a, tt.b)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifference_Large(t *testing.T) {
	a := seq("id", 50000)
	b := a[10:]

	assert.Equal(t, a[:10], Difference(a, b))
	assert.Empty(t, Difference(b, a))
}
