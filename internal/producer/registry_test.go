package producer

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DGarbs51/mockedup/internal/schema"
)

var fixedNow = time.Date(2026, time.October, 17, 15, 30, 0, 0, time.UTC)

func newTestRegistry(seed uint64) *Registry {
	return NewRegistry(NewSource(seed), clockwork.NewFakeClockAt(fixedNow))
}

func TestResolve_ConstantOverridesType(t *testing.T) {
	r := newTestRegistry(1)

	p, ok := r.Resolve(schema.Integer, "fixed")
	require.True(t, ok)
	for range 5 {
		assert.Equal(t, "fixed", p())
	}

	p, ok = r.Resolve(schema.ColumnType("Widget"), 42)
	require.True(t, ok)
	assert.Equal(t, 42, p())
}

func TestResolve_EmptyConstantFallsBackToType(t *testing.T) {
	r := newTestRegistry(1)

	p, ok := r.Resolve(schema.Boolean, "")
	require.True(t, ok)
	assert.Contains(t, []any{0, 1}, p())
}

func TestResolve_UnknownTypeYieldsSentinel(t *testing.T) {
	r := newTestRegistry(1)

	p, ok := r.Resolve(schema.ColumnType("Widget"), nil)
	require.False(t, ok)
	assert.Equal(t, Unavailable, p())

	_, ok = r.Resolve(schema.Custom, nil)
	assert.False(t, ok)
}

func TestRegistry_EveryKnownTypeButCustomIsRegistered(t *testing.T) {
	r := newTestRegistry(1)
	for _, typ := range schema.KnownTypes() {
		if typ == schema.Custom {
			assert.False(t, r.Has(typ))
			continue
		}
		p, ok := r.Resolve(typ, nil)
		require.True(t, ok, typ)
		assert.NotNil(t, p(), typ)
	}
	assert.Len(t, r.Types(), len(schema.KnownTypes())-1)
}

func TestProducers_Ranges(t *testing.T) {
	r := newTestRegistry(7)
	decadeStart := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)

	integer, _ := r.Resolve(schema.Integer, nil)
	boolean, _ := r.Resolve(schema.Boolean, nil)
	amount, _ := r.Resolve(schema.CurrencyAmount, nil)
	date, _ := r.Resolve(schema.Date, nil)
	birth, _ := r.Resolve(schema.Birthdate, nil)
	ts, _ := r.Resolve(schema.Timestamp, nil)
	id, _ := r.Resolve(schema.UUID, nil)

	for range 500 {
		i := integer().(int)
		assert.GreaterOrEqual(t, i, 1)
		assert.LessOrEqual(t, i, 1000)

		assert.Contains(t, []any{0, 1}, boolean())

		a := amount().(float64)
		assert.GreaterOrEqual(t, a, 1.0)
		assert.Less(t, a, 10000.0)
		assert.InDelta(t, a, math.Round(a*100)/100, 1e-9)

		d := date().(time.Time)
		assert.False(t, d.Before(decadeStart), d)
		assert.False(t, d.After(today), d)

		b := birth().(time.Time)
		assert.True(t, b.Before(today.AddDate(-18, 0, 1)), b)
		assert.True(t, b.After(today.AddDate(-82, 0, 0)), b)

		stamp := ts().(time.Time)
		assert.False(t, stamp.After(fixedNow))
		assert.True(t, stamp.After(fixedNow.AddDate(-1, 0, -1)))

		_, err := uuid.Parse(id().(string))
		assert.NoError(t, err)
	}
}

func TestProducers_StringsAreNonEmpty(t *testing.T) {
	r := newTestRegistry(3)
	for _, typ := range []schema.ColumnType{
		schema.String, schema.Name, schema.Email, schema.City, schema.Country,
		schema.Company, schema.Text, schema.CreditCard, schema.Color,
	} {
		p, _ := r.Resolve(typ, nil)
		s, ok := p().(string)
		require.True(t, ok, typ)
		assert.NotEmpty(t, s, typ)
	}
}

func TestSource_SeedIsReproducible(t *testing.T) {
	a := newTestRegistry(99)
	b := newTestRegistry(99)

	for _, typ := range []schema.ColumnType{schema.Integer, schema.Name, schema.Date, schema.UUID, schema.Text} {
		pa, _ := a.Resolve(typ, nil)
		pb, _ := b.Resolve(typ, nil)
		for range 10 {
			assert.Equal(t, pa(), pb(), typ)
		}
	}
}

func TestSource_ZeroSeedPicksRandomSeed(t *testing.T) {
	src := NewSource(0)
	assert.NotZero(t, src.Seed())
	assert.Equal(t, uint64(5), NewSource(5).Seed())
}

func TestSource_Helpers(t *testing.T) {
	src := NewSource(11)
	assert.Equal(t, 0, src.IntN(0))
	assert.Equal(t, 4, src.IntRange(4, 4))

	buf := make([]byte, 13)
	n, err := src.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	pool := []string{"a", "b", "c"}
	for range 20 {
		assert.Contains(t, pool, src.Pick(pool))
	}
}
