// Package pairing selects non-repeating font pairs from a catalog.
//
// An Engine keeps randomized traversal orders ("cycles") over its catalog:
// one shared cycle of pairs for unlocked shuffling, one cycle of secondaries
// per locked primary family and one cycle of primaries per locked secondary
// family. Cycles are created on first use and reshuffled when exhausted.
// Every pair the engine returns has two different families.
//
// An Engine is not safe for concurrent use. Rebuild it when the catalog
// changes instead of mutating it.
package pairing

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
)

// ErrCatalogTooSmall is returned when a pair is requested from a catalog with
// fewer than two fonts.
var ErrCatalogTooSmall = errors.New("pairing: catalog needs at least two fonts")

// collisionAttempts bounds how often the secondaries permutation is reshuffled
// before falling back to a rotation of the primaries.
const collisionAttempts = 16

const (
	kindUnlocked        = "unlocked"
	kindLockedPrimary   = "lock-primary"
	kindLockedSecondary = "lock-secondary"
)

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source. Tests pass a seeded source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// Engine dispenses font pairs from a fixed catalog.
type Engine struct {
	catalog  []font.Entry
	byFamily map[string]font.Entry
	rng      *rand.Rand

	unlocked           *cycle[font.Pair]
	secondaryByPrimary map[string]*cycle[font.Entry]
	primaryBySecondary map[string]*cycle[font.Entry]
}

// New builds an engine over catalog. Entries without a family are dropped and
// repeated families keep their first occurrence.
func New(catalog []font.Entry, opts ...Option) *Engine {
	e := &Engine{
		byFamily:           make(map[string]font.Entry, len(catalog)),
		rng:                rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		secondaryByPrimary: make(map[string]*cycle[font.Entry]),
		primaryBySecondary: make(map[string]*cycle[font.Entry]),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, entry := range catalog {
		if entry.Family == "" {
			continue
		}
		if _, dup := e.byFamily[entry.Family]; dup {
			continue
		}
		e.byFamily[entry.Family] = entry
		e.catalog = append(e.catalog, entry)
	}
	e.unlocked = newCycle(kindUnlocked, e.unlockedOrder)

	return e
}

// Catalog returns a copy of the fonts the engine was built over.
func (e *Engine) Catalog() []font.Entry {
	return slices.Clone(e.catalog)
}

// Len returns the number of fonts in the catalog.
func (e *Engine) Len() int {
	return len(e.catalog)
}

// FontByFamily looks up a font by its exact family name.
func (e *Engine) FontByFamily(family string) (font.Entry, bool) {
	entry, ok := e.byFamily[family]
	return entry, ok
}

// NextUnlockedPair dispenses the next pair from the shared unlocked cycle.
func (e *Engine) NextUnlockedPair() (font.Pair, error) {
	if len(e.catalog) < 2 {
		return font.Pair{}, ErrCatalogTooSmall
	}
	pair, ok := e.unlocked.next()
	if !ok {
		return font.Pair{}, ErrCatalogTooSmall
	}
	return pair, nil
}

// NextSecondaryForPrimary advances the cycle of secondaries for a locked
// primary. Entries whose family equals exclude are skipped on a best-effort
// basis. It returns false when primary is unknown, the catalog is too small,
// or no other candidate turns up.
func (e *Engine) NextSecondaryForPrimary(primary, exclude string) (font.Entry, bool) {
	return e.nextLocked(e.secondaryByPrimary, kindLockedPrimary, primary, exclude)
}

// NextPrimaryForSecondary advances the cycle of primaries for a locked
// secondary. It mirrors NextSecondaryForPrimary.
func (e *Engine) NextPrimaryForSecondary(secondary, exclude string) (font.Entry, bool) {
	return e.nextLocked(e.primaryBySecondary, kindLockedSecondary, secondary, exclude)
}

func (e *Engine) nextLocked(cycles map[string]*cycle[font.Entry], kind, fixed, exclude string) (font.Entry, bool) {
	if len(e.catalog) < 2 {
		return font.Entry{}, false
	}
	if _, ok := e.byFamily[fixed]; !ok {
		return font.Entry{}, false
	}

	c, ok := cycles[fixed]
	if !ok {
		c = newCycle(kind, func() []font.Entry { return e.othersOrder(fixed) })
		cycles[fixed] = c
	}

	return c.nextWhere(func(entry font.Entry) bool {
		return entry.Family != fixed && (exclude == "" || entry.Family != exclude)
	})
}

// othersOrder is a random permutation of every font except family.
func (e *Engine) othersOrder(family string) []font.Entry {
	others := make([]font.Entry, 0, len(e.catalog)-1)
	for _, entry := range e.catalog {
		if entry.Family != family {
			others = append(others, entry)
		}
	}
	e.shuffle(others)
	return others
}

// unlockedOrder pairs two independent permutations of the catalog position
// by position. The secondaries are reshuffled while any position pairs a
// family with itself; if that keeps happening the secondaries become the
// primaries rotated by one, which can never self-pair.
func (e *Engine) unlockedOrder() []font.Pair {
	if len(e.catalog) < 2 {
		return nil
	}

	primaries := e.permutation()
	secondaries := e.permutation()
	for attempt := 0; attempt < collisionAttempts && collides(primaries, secondaries); attempt++ {
		e.shuffle(secondaries)
	}
	if collides(primaries, secondaries) {
		secondaries = rotate(primaries)
		rotationFallbacks.Inc()
	}

	pairs := make([]font.Pair, len(primaries))
	for i := range primaries {
		pairs[i] = font.Pair{Primary: primaries[i], Secondary: secondaries[i]}
	}
	return pairs
}

func (e *Engine) permutation() []font.Entry {
	order := slices.Clone(e.catalog)
	e.shuffle(order)
	return order
}

func (e *Engine) shuffle(entries []font.Entry) {
	e.rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
}

func collides(primaries, secondaries []font.Entry) bool {
	for i := range primaries {
		if primaries[i].Family == secondaries[i].Family {
			return true
		}
	}
	return false
}

func rotate(entries []font.Entry) []font.Entry {
	out := make([]font.Entry, len(entries))
	for i := range entries {
		out[i] = entries[(i+1)%len(entries)]
	}
	return out
}
