package pairing

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func scenarioCatalog() []font.Entry {
	return []font.Entry{
		{Family: "Alpha", Weights: []int{400}, Category: font.CategorySerif},
		{Family: "Beta", Weights: []int{400}, Category: font.CategorySansSerif},
		{Family: "Gamma", Weights: []int{400}, Category: font.CategorySerif},
	}
}

func catalogOf(n int) []font.Entry {
	out := make([]font.Entry, n)
	for i := range out {
		out[i] = font.Entry{Family: fmt.Sprintf("Font %02d", i), Weights: []int{400}, Category: font.CategorySerif}
	}
	return out
}

func TestNoSelfPair(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7, 24} {
		t.Run(fmt.Sprintf("catalog-%d", n), func(t *testing.T) {
			e := New(catalogOf(n), seeded(uint64(n)))
			for i := 0; i < n*25; i++ {
				pair, err := e.NextUnlockedPair()
				require.NoError(t, err)
				assert.NotEqual(t, pair.Primary.Family, pair.Secondary.Family, "call %d", i)
			}
		})
	}
}

func TestExhaustionRegenerates(t *testing.T) {
	catalog := catalogOf(5)
	e := New(catalog, seeded(7))

	for i := 0; i < len(catalog); i++ {
		_, err := e.NextUnlockedPair()
		require.NoError(t, err)
	}
	assert.True(t, e.unlocked.exhausted())

	pair, err := e.NextUnlockedPair()
	require.NoError(t, err)
	assert.True(t, pair.Valid())
	assert.Equal(t, 1, e.unlocked.index)
}

func TestUnlockedCycleIsPermutation(t *testing.T) {
	catalog := catalogOf(9)
	e := New(catalog, seeded(42))

	primaries := map[string]int{}
	secondaries := map[string]int{}
	for i := 0; i < len(catalog); i++ {
		pair, err := e.NextUnlockedPair()
		require.NoError(t, err)
		primaries[pair.Primary.Family]++
		secondaries[pair.Secondary.Family]++
	}

	assert.Len(t, primaries, len(catalog))
	assert.Len(t, secondaries, len(catalog))
}

func TestTwoEntryCatalog(t *testing.T) {
	e := New([]font.Entry{{Family: "X"}, {Family: "Y"}}, seeded(3))

	for i := 0; i < 100; i++ {
		pair, err := e.NextUnlockedPair()
		require.NoError(t, err)
		got := pair.String()
		assert.Contains(t, []string{"X / Y", "Y / X"}, got)
	}
}

func TestCatalogTooSmall(t *testing.T) {
	for _, catalog := range [][]font.Entry{nil, {{Family: "Solo"}}, {{Family: "Solo"}, {Family: "Solo"}}} {
		e := New(catalog)
		_, err := e.NextUnlockedPair()
		assert.ErrorIs(t, err, ErrCatalogTooSmall)

		_, ok := e.NextSecondaryForPrimary("Solo", "")
		assert.False(t, ok)
		_, ok = e.NextPrimaryForSecondary("Solo", "")
		assert.False(t, ok)
	}
}

func TestFontByFamily(t *testing.T) {
	catalog := scenarioCatalog()
	e := New(catalog)

	for _, want := range catalog {
		got, ok := e.FontByFamily(want.Family)
		require.True(t, ok)
		assert.Equal(t, want, got)

		again, ok := e.FontByFamily(want.Family)
		require.True(t, ok)
		assert.Equal(t, got, again)
	}

	_, ok := e.FontByFamily("alpha")
	assert.False(t, ok, "lookup is case-sensitive")
	_, ok = e.FontByFamily("Delta")
	assert.False(t, ok)
}

func TestScenarioThreeUnlockedPairs(t *testing.T) {
	e := New(scenarioCatalog(), seeded(11))

	primaries := map[string]bool{}
	for i := 0; i < 3; i++ {
		pair, err := e.NextUnlockedPair()
		require.NoError(t, err)
		assert.NotEqual(t, pair.Primary.Family, pair.Secondary.Family)
		primaries[pair.Primary.Family] = true
	}
	assert.Len(t, primaries, 3, "one cycle visits every primary once")
}

func TestScenarioLockedPrimary(t *testing.T) {
	e := New(scenarioCatalog(), seeded(5))

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		entry, ok := e.NextSecondaryForPrimary("Alpha", "")
		require.True(t, ok)
		assert.Contains(t, []string{"Beta", "Gamma"}, entry.Family)
		seen[entry.Family] = true
	}
	assert.Equal(t, map[string]bool{"Beta": true, "Gamma": true}, seen)
}

func TestLockedCyclesNeverReturnFixedFamily(t *testing.T) {
	catalog := catalogOf(6)
	e := New(catalog, seeded(9))

	fixed := catalog[2].Family
	for i := 0; i < 60; i++ {
		s, ok := e.NextSecondaryForPrimary(fixed, "")
		require.True(t, ok)
		assert.NotEqual(t, fixed, s.Family)

		p, ok := e.NextPrimaryForSecondary(fixed, "")
		require.True(t, ok)
		assert.NotEqual(t, fixed, p.Family)
	}
}

func TestLockedExcludeSkipsCurrent(t *testing.T) {
	catalog := catalogOf(5)
	e := New(catalog, seeded(21))

	fixed := catalog[0].Family
	current := catalog[1].Family
	for i := 0; i < 40; i++ {
		next, ok := e.NextSecondaryForPrimary(fixed, current)
		require.True(t, ok)
		assert.NotEqual(t, current, next.Family)
		assert.NotEqual(t, fixed, next.Family)
		current = next.Family
	}
}

func TestLockedExcludeWithSinglePartner(t *testing.T) {
	e := New([]font.Entry{{Family: "X"}, {Family: "Y"}}, seeded(1))

	_, ok := e.NextSecondaryForPrimary("X", "Y")
	assert.False(t, ok, "the only partner is excluded")

	entry, ok := e.NextSecondaryForPrimary("X", "")
	require.True(t, ok)
	assert.Equal(t, "Y", entry.Family)
}

func TestLockedUnknownFamily(t *testing.T) {
	e := New(scenarioCatalog())

	_, ok := e.NextSecondaryForPrimary("Delta", "")
	assert.False(t, ok)
	_, ok = e.NextPrimaryForSecondary("Delta", "")
	assert.False(t, ok)
	assert.Empty(t, e.secondaryByPrimary)
	assert.Empty(t, e.primaryBySecondary)
}

func TestLockedCyclesAreCachedPerFamily(t *testing.T) {
	e := New(scenarioCatalog(), seeded(2))

	e.NextSecondaryForPrimary("Alpha", "")
	e.NextSecondaryForPrimary("Beta", "")
	e.NextSecondaryForPrimary("Alpha", "")
	e.NextPrimaryForSecondary("Gamma", "")

	assert.Len(t, e.secondaryByPrimary, 2)
	assert.Len(t, e.primaryBySecondary, 1)
	assert.Equal(t, 2, e.secondaryByPrimary["Alpha"].index)
}

func TestDuplicateFamiliesCollapse(t *testing.T) {
	e := New([]font.Entry{
		{Family: "Lora", Weights: []int{400}},
		{Family: ""},
		{Family: "Lora", Weights: []int{700}},
		{Family: "Bitter"},
	})

	assert.Equal(t, 2, e.Len())
	lora, ok := e.FontByFamily("Lora")
	require.True(t, ok)
	assert.Equal(t, []int{400}, lora.Weights)
}

func TestRotateNeverSelfPairs(t *testing.T) {
	primaries := catalogOf(4)
	secondaries := rotate(primaries)
	assert.False(t, collides(primaries, secondaries))
	assert.Equal(t, primaries[1].Family, secondaries[0].Family)
	assert.Equal(t, primaries[0].Family, secondaries[3].Family)
}

func TestCollisionFallback(t *testing.T) {
	// A two-font catalog collides on half of all shuffles, which keeps the
	// retry loop busy.
	e := New([]font.Entry{{Family: "X"}, {Family: "Y"}}, seeded(99))
	for i := 0; i < 500; i++ {
		order := e.unlockedOrder()
		require.Len(t, order, 2)
		assert.False(t, collides(
			[]font.Entry{order[0].Primary, order[1].Primary},
			[]font.Entry{order[0].Secondary, order[1].Secondary},
		))
	}
}

// stuckSource makes every shuffle the identity permutation.
type stuckSource struct{}

func (stuckSource) Uint64() uint64 { return ^uint64(0) }

func TestRotationFallbackWhenShufflesCollide(t *testing.T) {
	catalog := catalogOf(4)
	e := New(catalog, WithRand(rand.New(stuckSource{})))

	for i := 0; i < len(catalog); i++ {
		pair, err := e.NextUnlockedPair()
		require.NoError(t, err)
		assert.Equal(t, catalog[i].Family, pair.Primary.Family)
		assert.Equal(t, catalog[(i+1)%len(catalog)].Family, pair.Secondary.Family)
	}
}
