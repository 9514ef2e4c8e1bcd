// Package session drives a pair engine on behalf of one user: it holds the
// displayed pair and lock mode, runs at most one pair transition at a time,
// prefetches the next candidate and swaps in a freshly resolved catalog.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/pairing"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/syncx"
	"github.com/zeromicro/go-zero/core/threading"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("session: controller closed")

const (
	kindShuffle = "shuffle"
	kindPick    = "pick"
	kindSwap    = "catalog-swap"
)

// PairLoader loads the stylesheets of both fonts of a pair.
type PairLoader interface {
	LoadPair(ctx context.Context, pair font.Pair) *font.Load
}

// CatalogSource resolves the catalog asynchronously, as catalog.Provider does.
type CatalogSource interface {
	Catalog(ctx context.Context) []font.Entry
}

// State is a point-in-time view of a controller.
type State struct {
	Pair           font.Pair `json:"pair"`
	Lock           Lock      `json:"lock"`
	FontCount      int       `json:"fontCount"`
	CatalogLoading bool      `json:"catalogLoading"`
	PairUpdating   bool      `json:"pairUpdating"`
	Version        uint64    `json:"version"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithEngineOptions passes options to every engine the controller builds.
func WithEngineOptions(opts ...pairing.Option) Option {
	return func(c *Controller) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

// prefetched is a candidate pair computed ahead of the next shuffle, tagged
// with the context it was computed under.
type prefetched struct {
	key   string
	pair  font.Pair
	ready *font.Load
}

// Controller is safe for concurrent use. Commands that arrive while a
// transition is running are dropped, not queued.
type Controller struct {
	loader     PairLoader
	engineOpts []pairing.Option

	// slot holds a token while a transition is in flight.
	slot  chan struct{}
	alive *syncx.AtomicBool

	ctx    context.Context
	cancel context.CancelFunc
	group  *threading.RoutineGroup

	mu             sync.RWMutex
	engine         *pairing.Engine
	pair           font.Pair
	lock           Lock
	catalogLoading bool
	updating       bool
	prefetch       *prefetched
	version        uint64
}

// New creates a controller over catalog, draws the first pair and starts
// loading it together with a prefetched successor. A nil loader loads
// nothing. It fails with pairing.ErrCatalogTooSmall for catalogs of fewer
// than two fonts.
func New(catalog []font.Entry, loader PairLoader, opts ...Option) (*Controller, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		loader: loader,
		slot:   make(chan struct{}, 1),
		alive:  syncx.NewAtomicBool(),
		ctx:    ctx,
		cancel: cancel,
		group:  threading.NewRoutineGroup(),
		lock:   LockNone,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loader == nil {
		c.loader = font.NewLoader(nil, nil)
	}

	c.engine = pairing.New(catalog, c.engineOpts...)
	pair, err := c.engine.NextUnlockedPair()
	if err != nil {
		cancel()
		return nil, err
	}
	c.pair = pair
	c.alive.Set(true)

	c.loader.LoadPair(c.ctx, pair)
	c.prime()
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		Pair:           c.pair,
		Lock:           c.lock,
		FontCount:      c.engine.Len(),
		CatalogLoading: c.catalogLoading,
		PairUpdating:   c.updating,
		Version:        c.version,
	}
}

// Fonts returns the catalog the controller currently draws from.
func (c *Controller) Fonts() []font.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Catalog()
}

// Font looks up a family in the current catalog.
func (c *Controller) Font(family string) (font.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.FontByFamily(family)
}

// Active reports whether the controller has not been closed.
func (c *Controller) Active() bool {
	return c.alive.True()
}

// Shuffle moves to the next pair for the current lock mode, using the
// prefetched candidate when it was computed for the same context. It reports
// whether a new pair was committed. A shuffle issued while another transition
// is running returns false without doing anything.
func (c *Controller) Shuffle(ctx context.Context) (bool, error) {
	if !c.alive.True() {
		return false, ErrClosed
	}
	if !c.begin() {
		transitions.Inc(kindShuffle, "dropped")
		return false, nil
	}
	defer c.finish()
	start := time.Now()

	c.mu.Lock()
	active := c.pair
	key := contextKey(c.lock, active)

	var (
		next  font.Pair
		ready *font.Load
		ok    bool
	)
	if pf := c.prefetch; pf != nil && pf.key == key {
		next, ready, ok = pf.pair, pf.ready, true
		c.prefetch = nil
		prefetches.Inc("hit")
	} else {
		prefetches.Inc("miss")
		if next, ok = c.nextPairLocked(c.lock, active); ok {
			ready = c.loader.LoadPair(c.ctx, next)
		}
	}
	c.mu.Unlock()

	if !ok {
		transitions.Inc(kindShuffle, "exhausted")
		return false, nil
	}
	if err := c.await(ctx, ready); err != nil {
		transitions.Inc(kindShuffle, "aborted")
		return false, err
	}

	applied := c.commit(active, next)
	c.observe(ctx, kindShuffle, applied, start)
	return applied, nil
}

// SetPrimary replaces the primary font with family. It is a no-op when the
// family is unknown, equals the secondary, or is already displayed.
func (c *Controller) SetPrimary(ctx context.Context, family string) (bool, error) {
	return c.pick(ctx, LockPrimary, family)
}

// SetSecondary is the secondary-slot counterpart of SetPrimary.
func (c *Controller) SetSecondary(ctx context.Context, family string) (bool, error) {
	return c.pick(ctx, LockSecondary, family)
}

func (c *Controller) pick(ctx context.Context, slot Lock, family string) (bool, error) {
	return c.override(ctx, func(engine *pairing.Engine, current font.Pair) (font.Pair, bool) {
		entry, ok := engine.FontByFamily(family)
		if !ok {
			return font.Pair{}, false
		}
		if slot == LockPrimary {
			return font.Pair{Primary: entry, Secondary: current.Secondary}, true
		}
		return font.Pair{Primary: current.Primary, Secondary: entry}, true
	})
}

// SetPair replaces both fonts at once, as when restoring a snapshot. The same
// no-op rules as SetPrimary apply.
func (c *Controller) SetPair(ctx context.Context, primary, secondary string) (bool, error) {
	return c.override(ctx, func(engine *pairing.Engine, _ font.Pair) (font.Pair, bool) {
		p, ok := engine.FontByFamily(primary)
		if !ok {
			return font.Pair{}, false
		}
		s, ok := engine.FontByFamily(secondary)
		if !ok {
			return font.Pair{}, false
		}
		return font.Pair{Primary: p, Secondary: s}, true
	})
}

// override applies a directly chosen pair. It bypasses the engine's cycles
// and discards any prefetched candidate.
func (c *Controller) override(ctx context.Context, choose func(*pairing.Engine, font.Pair) (font.Pair, bool)) (bool, error) {
	if !c.alive.True() {
		return false, ErrClosed
	}
	if !c.begin() {
		transitions.Inc(kindPick, "dropped")
		return false, nil
	}
	defer c.finish()
	start := time.Now()

	c.mu.Lock()
	active := c.pair
	next, ok := choose(c.engine, active)
	if !ok || !next.Valid() || next.Same(active) {
		c.mu.Unlock()
		transitions.Inc(kindPick, "noop")
		return false, nil
	}
	c.prefetch = nil
	c.mu.Unlock()

	if err := c.await(ctx, c.loader.LoadPair(c.ctx, next)); err != nil {
		transitions.Inc(kindPick, "aborted")
		return false, err
	}

	applied := c.commit(active, next)
	c.observe(ctx, kindPick, applied, start)
	return applied, nil
}

// ToggleLock pins slot, or clears the lock when slot is already pinned. It
// never changes the pair; it only redirects future shuffles and recomputes
// the prefetched candidate.
func (c *Controller) ToggleLock(slot Lock) (Lock, error) {
	if !c.alive.True() {
		return LockNone, ErrClosed
	}
	if slot != LockPrimary && slot != LockSecondary {
		return LockNone, ErrInvalidSlot
	}

	c.mu.Lock()
	if c.lock == slot {
		c.lock = LockNone
	} else {
		c.lock = slot
	}
	lock := c.lock
	c.mu.Unlock()

	c.prime()
	return lock, nil
}

// SwapCatalog rebuilds the engine over entries, loads a fresh unlocked pair
// and only then exposes the new catalog and pair together. Catalogs with
// fewer than two fonts, or with the same families as the current one, are
// ignored. Unlike user commands it waits for a running transition to finish.
func (c *Controller) SwapCatalog(ctx context.Context, entries []font.Entry) (bool, error) {
	if !c.alive.True() {
		return false, ErrClosed
	}

	c.mu.RLock()
	same := font.SameFamilies(c.engine.Catalog(), entries)
	c.mu.RUnlock()
	if len(entries) < 2 || same {
		return false, nil
	}

	if err := c.acquire(ctx); err != nil {
		return false, err
	}
	defer c.finish()
	start := time.Now()

	c.mu.Lock()
	engine := pairing.New(entries, c.engineOpts...)
	next, err := engine.NextUnlockedPair()
	c.mu.Unlock()
	if err != nil {
		transitions.Inc(kindSwap, "exhausted")
		return false, nil
	}

	if err := c.await(ctx, c.loader.LoadPair(c.ctx, next)); err != nil {
		transitions.Inc(kindSwap, "aborted")
		return false, err
	}

	c.mu.Lock()
	if !c.alive.True() {
		c.mu.Unlock()
		transitions.Inc(kindSwap, "abandoned")
		return false, nil
	}
	c.engine = engine
	c.pair = next
	c.prefetch = nil
	c.version++
	c.mu.Unlock()

	c.observe(ctx, kindSwap, true, start)
	logx.WithContext(ctx).Infow("Font catalog swapped in",
		logx.Field("fonts", engine.Len()),
		logx.Field("pair", next.String()))
	return true, nil
}

// WatchCatalog resolves src in the background and swaps the result in. The
// catalog-loading flag is set until resolution and the swap have finished.
func (c *Controller) WatchCatalog(src CatalogSource) {
	if !c.alive.True() {
		return
	}

	c.mu.Lock()
	c.catalogLoading = true
	c.mu.Unlock()

	c.group.RunSafe(func() {
		defer func() {
			c.mu.Lock()
			c.catalogLoading = false
			c.mu.Unlock()
		}()

		entries := src.Catalog(c.ctx)
		if !c.alive.True() {
			return
		}
		if _, err := c.SwapCatalog(c.ctx, entries); err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, context.Canceled) {
			logx.WithContext(c.ctx).Errorf("Catalog swap failed: %v", err)
		}
	})
}

// Close tears the controller down. In-flight loads finish in the background
// but nothing they produce is applied.
func (c *Controller) Close() {
	if !c.alive.CompareAndSwap(true, false) {
		return
	}

	c.cancel()
	c.group.Wait()

	c.mu.Lock()
	c.prefetch = nil
	c.mu.Unlock()
}

// begin takes the transition slot if it is free.
func (c *Controller) begin() bool {
	select {
	case c.slot <- struct{}{}:
	default:
		return false
	}
	c.setUpdating(true)
	return true
}

// acquire waits for the transition slot.
func (c *Controller) acquire(ctx context.Context) error {
	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrClosed
	}
	c.setUpdating(true)
	return nil
}

// finish releases the transition slot and primes the next candidate whether
// or not the transition committed.
func (c *Controller) finish() {
	c.setUpdating(false)
	<-c.slot
	c.prime()
}

func (c *Controller) setUpdating(v bool) {
	c.mu.Lock()
	c.updating = v
	c.mu.Unlock()
}

// await waits for a load, giving up when the caller or the controller goes away.
func (c *Controller) await(ctx context.Context, ld *font.Load) error {
	select {
	case <-ld.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrClosed
	}
}

// commit exposes next unless the controller was closed or next would not
// change what is displayed.
func (c *Controller) commit(active, next font.Pair) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alive.True() || next.Same(active) || next.Same(c.pair) {
		return false
	}
	c.pair = next
	c.version++
	return true
}

// prime computes and starts loading a candidate for the current context,
// keeping an existing candidate if it still matches.
func (c *Controller) prime() {
	if !c.alive.True() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := contextKey(c.lock, c.pair)
	if pf := c.prefetch; pf != nil && pf.key == key && !pf.pair.Same(c.pair) {
		return
	}

	next, ok := c.nextPairLocked(c.lock, c.pair)
	if !ok || next.Same(c.pair) {
		c.prefetch = nil
		return
	}
	c.prefetch = &prefetched{
		key:   key,
		pair:  next,
		ready: c.loader.LoadPair(c.ctx, next),
	}
}

// nextPairLocked asks the engine for the next candidate under lock. The
// caller holds c.mu.
func (c *Controller) nextPairLocked(lock Lock, active font.Pair) (font.Pair, bool) {
	switch lock {
	case LockPrimary:
		s, ok := c.engine.NextSecondaryForPrimary(active.Primary.Family, active.Secondary.Family)
		if !ok {
			return font.Pair{}, false
		}
		return font.Pair{Primary: active.Primary, Secondary: s}, true
	case LockSecondary:
		p, ok := c.engine.NextPrimaryForSecondary(active.Secondary.Family, active.Primary.Family)
		if !ok {
			return font.Pair{}, false
		}
		return font.Pair{Primary: p, Secondary: active.Secondary}, true
	default:
		pair, err := c.engine.NextUnlockedPair()
		if err != nil {
			return font.Pair{}, false
		}
		return pair, true
	}
}

func (c *Controller) observe(ctx context.Context, kind string, applied bool, start time.Time) {
	if !applied {
		transitions.Inc(kind, "unchanged")
		return
	}
	transitions.Inc(kind, "applied")
	transitionDuration.ObserveFloat(time.Since(start).Seconds(), kind)

	c.mu.RLock()
	pair := c.pair
	c.mu.RUnlock()
	logx.WithContext(ctx).Infow("Font pair committed",
		logx.Field("kind", kind),
		logx.Field("pair", pair.String()))
}

// Prefetched returns the candidate waiting in the prefetch slot, if any.
func (c *Controller) Prefetched() (font.Pair, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.prefetch == nil {
		return font.Pair{}, false
	}
	return c.prefetch.pair, true
}
