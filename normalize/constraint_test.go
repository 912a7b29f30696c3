package normalize_test

import (
	"testing"

	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraint(t *testing.T) {
	t.Run("empty input is an unconstrained set", func(t *testing.T) {
		set, err := normalize.ParseConstraint("")
		require.NoError(t, err)
		assert.True(t, set.Empty())
		assert.Equal(t, normalize.TristateTrue, set.Matches(normalize.ParseVersion("1.0.0")))
	})

	t.Run("whitespace only is also unconstrained", func(t *testing.T) {
		set, err := normalize.ParseConstraint("   ")
		require.NoError(t, err)
		assert.True(t, set.Empty())
	})

	t.Run("disjunction of two clauses", func(t *testing.T) {
		set, err := normalize.ParseConstraint(">=1.0.0 <2.0.0 || >=3.0.0")
		require.NoError(t, err)
		require.Len(t, set.Clauses, 2)
		assert.Len(t, set.Clauses[0].Bounds, 2)
		assert.Len(t, set.Clauses[1].Bounds, 1)
	})

	t.Run("comma separated bounds", func(t *testing.T) {
		set, err := normalize.ParseConstraint(">=1.0.0, <2.0.0")
		require.NoError(t, err)
		require.Len(t, set.Clauses, 1)
		assert.Len(t, set.Clauses[0].Bounds, 2)
	})

	t.Run("bare version means equality", func(t *testing.T) {
		set, err := normalize.ParseConstraint("1.2.3")
		require.NoError(t, err)
		require.Len(t, set.Clauses, 1)
		assert.Equal(t, normalize.BoundEq, set.Clauses[0].Bounds[0].Kind)
	})

	t.Run("explicit equality operator", func(t *testing.T) {
		set, err := normalize.ParseConstraint("=1.2.3")
		require.NoError(t, err)
		assert.Equal(t, normalize.BoundEq, set.Clauses[0].Bounds[0].Kind)
	})

	t.Run("unknown operator is a parse error", func(t *testing.T) {
		_, err := normalize.ParseConstraint("^1.2.3")
		var parseErr *normalize.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "^1.2.3", parseErr.Token)
	})

	t.Run("empty clause is a parse error", func(t *testing.T) {
		_, err := normalize.ParseConstraint(">=1.0.0 || ")
		var parseErr *normalize.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("duplicate bound kind in a clause is a parse error", func(t *testing.T) {
		_, err := normalize.ParseConstraint(">=1.0.0 >=2.0.0")
		var parseErr *normalize.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("missing version after operator is a parse error", func(t *testing.T) {
		_, err := normalize.ParseConstraint(">=")
		var parseErr *normalize.ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestConstraintRoundTrip(t *testing.T) {
	exprs := []string{
		">=1.0.0 <2.0.0 || >=3.0.0",
		"<1.2.4",
		"=1.2.3",
		">1.0.0 <=1.5.0 || =2.0.0 || >=3.0.0-rc1",
	}

	probes := []string{"0.9.9", "1.0.0", "1.2.4", "1.5.0", "2.0.0", "3.0.0", "3.1.0"}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			set, err := normalize.ParseConstraint(expr)
			require.NoError(t, err)

			reparsed, err := normalize.ParseConstraint(set.String())
			require.NoError(t, err)

			// serialized form evaluates identically
			for _, probe := range probes {
				v := normalize.ParseVersion(probe)
				assert.Equal(t, set.Matches(v), reparsed.Matches(v), "probe %s", probe)
			}
		})
	}
}

func TestConstraintMatches(t *testing.T) {
	t.Run("deployed version inside first clause", func(t *testing.T) {
		set, err := normalize.ParseConstraint(">=1.0.0 <2.0.0 || >=3.0.0")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateTrue, set.Matches(normalize.ParseVersion("1.5.0")))
	})

	t.Run("deployed version inside second clause", func(t *testing.T) {
		set, err := normalize.ParseConstraint(">=1.0.0 <2.0.0 || >=3.0.0")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateTrue, set.Matches(normalize.ParseVersion("3.1.0")))
	})

	t.Run("deployed version between clauses", func(t *testing.T) {
		set, err := normalize.ParseConstraint(">=1.0.0 <2.0.0 || >=3.0.0")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateFalse, set.Matches(normalize.ParseVersion("2.5.0")))
	})

	t.Run("strict upper bound excludes the fixed version", func(t *testing.T) {
		set, err := normalize.ParseConstraint("<1.2.4")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateFalse, set.Matches(normalize.ParseVersion("1.2.4")))
	})

	t.Run("pre-release bound against plain release is incomparable", func(t *testing.T) {
		set, err := normalize.ParseConstraint(">=1.0.0-beta")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateIncomparable, set.Matches(normalize.ParseVersion("1.0.0")))
	})

	t.Run("clause with incomparable bound never matches partially", func(t *testing.T) {
		// the >=0.1.0 bound alone would match, but the incomparable bound
		// has to poison the whole clause
		set, err := normalize.ParseConstraint(">=0.1.0 <1.0.0-beta")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateIncomparable, set.Matches(normalize.ParseVersion("0.5.0")))
	})

	t.Run("a true clause wins over an incomparable one", func(t *testing.T) {
		set, err := normalize.ParseConstraint("<1.0.0-beta || >=0.1.0")
		require.NoError(t, err)
		assert.Equal(t, normalize.TristateTrue, set.Matches(normalize.ParseVersion("0.5.0")))
	})
}

func TestConstraintCache(t *testing.T) {
	cache, err := normalize.NewConstraintCache(16)
	require.NoError(t, err)

	set1, err := cache.Parse(">=1.0.0")
	require.NoError(t, err)
	set2, err := cache.Parse(">=1.0.0")
	require.NoError(t, err)
	assert.Equal(t, set1, set2)

	_, err = cache.Parse("^broken")
	var parseErr *normalize.ParseError
	require.ErrorAs(t, err, &parseErr)

	// errors are not cached - the same expression fails again
	_, err = cache.Parse("^broken")
	require.Error(t, err)
}
