package normalize_test

import (
	"testing"

	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/stretchr/testify/assert"
)

func TestIsComparable(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: "1.2.3", b: "1.2.3", want: true},
		{name: "missing trailing numeric is zero", a: "1.2", b: "1.2.0", want: true},
		{name: "v prefix is ignored", a: "v1.2.3", b: "1.2.3", want: true},
		{name: "pre-release on both sides", a: "1.0.0-beta", b: "1.0.0-alpha", want: true},
		{name: "pre-release against plain release", a: "1.0.0-beta", b: "1.0.0", want: false},
		{name: "numeric against alpha token", a: "1.alpha", b: "1.2", want: false},
		{name: "extra numeric suffix", a: "1.2.3-1", b: "1.2.3", want: true},
		{name: "build metadata on both sides aligns", a: "1.2.3+build1", b: "1.2.3+build2", want: true},
		{name: "empty against version", a: "", b: "1.0.0", want: false},
		{name: "empty both sides", a: "", b: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := normalize.ParseVersion(tc.a)
			b := normalize.ParseVersion(tc.b)
			assert.Equal(t, tc.want, normalize.IsComparable(a, b))
			// comparability is symmetric
			assert.Equal(t, tc.want, normalize.IsComparable(b, a))
		})
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "1.2.3", b: "1.2.3", want: 0},
		{name: "patch ordering", a: "1.2.3", b: "1.2.4", want: -1},
		{name: "major ordering", a: "2.0.0", b: "1.9.9", want: 1},
		{name: "missing segment equals zero", a: "1.2", b: "1.2.0", want: 0},
		{name: "numeric not lexicographic", a: "1.10.0", b: "1.9.0", want: 1},
		{name: "leading zeros", a: "1.02.0", b: "1.2.0", want: 0},
		{name: "pre-release ordering", a: "1.0.0-alpha", b: "1.0.0-beta", want: -1},
		{name: "long digit runs", a: "1.20260831000000", b: "1.20260830999999", want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := normalize.Compare(normalize.ParseVersion(tc.a), normalize.ParseVersion(tc.b))
			assert.True(t, ok)
			assert.Equal(t, tc.want, c)
		})
	}

	t.Run("incomparable pair reports not ok", func(t *testing.T) {
		_, ok := normalize.Compare(normalize.ParseVersion("1.0.0"), normalize.ParseVersion("1.0.0-beta"))
		assert.False(t, ok)
	})
}

// comparator totality: a comparable pair always yields true or false from a
// bound comparison, never incomparable
func TestCompareBoundTotality(t *testing.T) {
	versions := []string{"1.0.0", "1.2", "1.2.0", "2.0.0-rc1", "2.0.0-rc2", "0.0.1", "3"}
	kinds := []normalize.BoundKind{normalize.BoundGe, normalize.BoundGt, normalize.BoundLe, normalize.BoundLt, normalize.BoundEq}

	for _, a := range versions {
		for _, b := range versions {
			av := normalize.ParseVersion(a)
			bv := normalize.ParseVersion(b)
			if !normalize.IsComparable(av, bv) {
				continue
			}
			for _, kind := range kinds {
				res := normalize.CompareBound(av, kind, bv)
				assert.NotEqual(t, normalize.TristateIncomparable, res, "compare %s %s %s", a, kind, b)
			}
		}
	}
}

func TestCompareBound(t *testing.T) {
	t.Run("strict lower bound excludes the bound itself", func(t *testing.T) {
		deployed := normalize.ParseVersion("1.2.4")
		bound := normalize.ParseVersion("1.2.4")
		assert.Equal(t, normalize.TristateFalse, normalize.CompareBound(deployed, normalize.BoundLt, bound))
		assert.Equal(t, normalize.TristateTrue, normalize.CompareBound(deployed, normalize.BoundLe, bound))
	})

	t.Run("incomparable bound propagates", func(t *testing.T) {
		deployed := normalize.ParseVersion("1.0.0")
		bound := normalize.ParseVersion("1.0.0-beta")
		assert.Equal(t, normalize.TristateIncomparable, normalize.CompareBound(deployed, normalize.BoundGe, bound))
	})

	t.Run("empty deployed version never matches an upper bound", func(t *testing.T) {
		deployed := normalize.ParseVersion("")
		bound := normalize.ParseVersion("2.31.0")
		assert.Equal(t, normalize.TristateIncomparable, normalize.CompareBound(deployed, normalize.BoundLt, bound))
	})
}
