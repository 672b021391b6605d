package checks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promcheck/exposition"
)

func TestEvaluateUp(t *testing.T) {
	ctx := Context{}
	assert.True(t, Evaluate(Up, 1.0, ctx), "exactly 1 is up")
	assert.True(t, Evaluate(Up, 2, ctx))
	assert.True(t, Evaluate(Up, math.Inf(1), ctx))
	assert.False(t, Evaluate(Up, 0.9999, ctx))
	assert.False(t, Evaluate(Up, 0, ctx))
	assert.False(t, Evaluate(Up, -1, ctx))
	assert.False(t, Evaluate(Up, math.NaN(), ctx), "NaN is never up")
}

func TestEvaluateFresh(t *testing.T) {
	ctx := Context{Now: 100, StaleThreshold: 10}
	assert.True(t, Evaluate(Fresh, 90, ctx), "the window edge is still fresh")
	assert.True(t, Evaluate(Fresh, 95, ctx))
	assert.True(t, Evaluate(Fresh, 100, ctx))
	assert.True(t, Evaluate(Fresh, 1000, ctx), "values from the future are fresh")
	assert.False(t, Evaluate(Fresh, 89.999, ctx))
	assert.False(t, Evaluate(Fresh, 80, ctx))
	assert.False(t, Evaluate(Fresh, math.NaN(), ctx))

	zero := Context{Now: 100}
	assert.True(t, Evaluate(Fresh, 100, zero))
	assert.False(t, Evaluate(Fresh, 99, zero))
}

func TestEvaluateUnknownKind(t *testing.T) {
	assert.False(t, Evaluate(Kind(7), 1e9, Context{}))
}

func TestNewContext(t *testing.T) {
	now := time.Unix(1700000000, 500_000_000)
	ctx := NewContext(now, 300)
	assert.Equal(t, 1700000000.5, ctx.Now)
	assert.Equal(t, 300.0, ctx.StaleThreshold)
}

func TestIsSatisfiedBy(t *testing.T) {
	ctx := Context{Now: 100, StaleThreshold: 10}

	t.Run("matching name defers to the kind", func(t *testing.T) {
		c := Check{Name: "up", Kind: Up}
		assert.True(t, c.IsSatisfiedBy(exposition.Sample{Name: "up", Value: 1}, ctx))
		assert.False(t, c.IsSatisfiedBy(exposition.Sample{Name: "up", Value: 0}, ctx))
	})

	t.Run("different name never satisfies", func(t *testing.T) {
		c := Check{Name: "up", Kind: Up}
		assert.False(t, c.IsSatisfiedBy(exposition.Sample{Name: "upx", Value: 5}, ctx))
	})

	t.Run("fresh uses the value, not the timestamp", func(t *testing.T) {
		c := Check{Name: "last_run", Kind: Fresh}
		s := exposition.Sample{Name: "last_run", Value: 50, Timestamp: 100, HasTimestamp: true}
		assert.False(t, c.IsSatisfiedBy(s, ctx))
	})
}

func TestKindStringAndParse(t *testing.T) {
	assert.Equal(t, "Up", Up.String())
	assert.Equal(t, "Fresh", Fresh.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())

	k, err := ParseKind("FRESH")
	require.NoError(t, err)
	assert.Equal(t, Fresh, k)
	k, err = ParseKind("up")
	require.NoError(t, err)
	assert.Equal(t, Up, k)
	_, err = ParseKind("down")
	assert.Error(t, err)
}

func TestCheckOrdering(t *testing.T) {
	list := []Check{
		{Name: "now", Kind: Fresh},
		{Name: "up", Kind: Up},
		{Name: "now", Kind: Up},
		{Name: "a", Kind: Fresh},
	}
	SortChecks(list)
	assert.Equal(t, []Check{
		{Name: "a", Kind: Fresh},
		{Name: "now", Kind: Up},
		{Name: "now", Kind: Fresh},
		{Name: "up", Kind: Up},
	}, list)

	assert.Zero(t, Compare(Check{Name: "x", Kind: Up}, Check{Name: "x", Kind: Up}))
	assert.Negative(t, Compare(Check{Name: "x", Kind: Up}, Check{Name: "x", Kind: Fresh}))
	assert.Positive(t, Compare(Check{Name: "y", Kind: Up}, Check{Name: "x", Kind: Fresh}))
}

func TestFromNames(t *testing.T) {
	assert.Equal(t, []Check{{Name: "a", Kind: Fresh}, {Name: "b", Kind: Fresh}}, FromNames(Fresh, "a", "b"))
	assert.Empty(t, FromNames(Up))
	assert.Equal(t, "Fresh(a)", Check{Name: "a", Kind: Fresh}.String())
}
