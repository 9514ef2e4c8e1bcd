package font

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/log"
	"github.com/zeromicro/go-zero/core/mr"
	"github.com/zeromicro/go-zero/core/threading"
)

// Load is the future returned by the loader. It settles when the stylesheet
// request finishes, whether it succeeded or failed.
type Load struct {
	done chan struct{}
}

func newLoad() *Load {
	return &Load{done: make(chan struct{})}
}

// Done is closed once the load has settled.
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the load settles. The only error it returns is the
// context's; load failures are never surfaced.
func (l *Load) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settled reports whether the load has finished.
func (l *Load) Settled() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// LoaderOptions configures the Loader
type LoaderOptions struct {
	StylesheetBase string
	TargetWeights  []int
	Timeout        time.Duration
}

// LoaderOption configures the loader
type LoaderOption func(*LoaderOptions)

// WithStylesheetBase overrides the CSS API base URL.
func WithStylesheetBase(base string) LoaderOption {
	return func(opts *LoaderOptions) {
		if base != "" {
			opts.StylesheetBase = base
		}
	}
}

// WithTargetWeights sets the representative weights requests are reduced to.
func WithTargetWeights(weights []int) LoaderOption {
	return func(opts *LoaderOptions) {
		if w := NormalizeWeights(weights); len(w) > 0 {
			opts.TargetWeights = w
		}
	}
}

// WithLoadTimeout bounds how long a single stylesheet fetch may take.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		if d > 0 {
			opts.Timeout = d
		}
	}
}

// Loader inserts stylesheet links into a Document exactly once per
// (family, resolved href) and tracks their loading futures.
type Loader struct {
	doc     *Document
	fetcher Fetcher
	options *LoaderOptions

	mu         sync.Mutex
	loads      map[string]*Load
	preconnect sync.Once
}

// NewLoader creates a loader writing into doc. A nil fetcher settles every
// load immediately, which is what offline tools want.
func NewLoader(doc *Document, fetcher Fetcher, opts ...LoaderOption) *Loader {
	options := &LoaderOptions{
		StylesheetBase: GoogleFontsAPI,
		TargetWeights:  slices.Clone(DefaultTargetWeights),
		Timeout:        8 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	if doc == nil {
		doc = NewDocument()
	}
	return &Loader{
		doc:     doc,
		fetcher: fetcher,
		options: options,
		loads:   make(map[string]*Load),
	}
}

// Document returns the head the loader writes to.
func (l *Loader) Document() *Document {
	return l.doc
}

// Href returns the stylesheet URL the loader would request for an entry.
func (l *Loader) Href(family string, weights []int) string {
	return StylesheetURL(l.options.StylesheetBase, family, ResolveWeights(weights, l.options.TargetWeights))
}

// Load ensures the stylesheet for family is in the document and returns its
// future. A repeated request for the same resolved href returns the existing
// future without inserting another link. The fetch is detached from ctx's
// cancellation so a discarded prefetch still warms the cache.
func (l *Loader) Load(ctx context.Context, family string, weights []int) *Load {
	l.preconnect.Do(l.insertPreconnect)

	href := l.Href(family, weights)
	key := family + "|" + href

	l.mu.Lock()
	if existing, ok := l.loads[key]; ok {
		l.mu.Unlock()
		assetLoads.Inc("deduped")
		return existing
	}
	ld := newLoad()
	l.loads[key] = ld
	l.mu.Unlock()

	l.doc.insert(key, Link{Rel: RelStylesheet, Href: href, Family: family})

	if l.fetcher == nil {
		close(ld.done)
		assetLoads.Inc("skipped")
		return ld
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.options.Timeout)
	threading.GoSafe(func() {
		defer close(ld.done)
		defer cancel()

		start := time.Now()
		sources, err := l.fetcher.Fetch(fetchCtx, href)
		loadDuration.ObserveFloat(time.Since(start).Seconds())
		if err != nil {
			assetLoads.Inc("failed")
			log.Warn("Font stylesheet failed to load, falling back to generic family",
				"family", family, "href", href, "error", err)
			return
		}
		l.doc.setSources(key, sources)
		assetLoads.Inc("loaded")
		log.Debug("Font stylesheet loaded", "family", family, "sources", len(sources))
	})

	return ld
}

// LoadEntry loads the stylesheet for a catalog entry.
func (l *Loader) LoadEntry(ctx context.Context, e Entry) *Load {
	return l.Load(ctx, e.Family, e.Weights)
}

// LoadPair loads both slots of a pair and settles once both have settled.
func (l *Loader) LoadPair(ctx context.Context, p Pair) *Load {
	primary := l.LoadEntry(ctx, p.Primary)
	secondary := l.LoadEntry(ctx, p.Secondary)

	both := newLoad()
	threading.GoSafe(func() {
		defer close(both.done)
		mr.FinishVoid(
			func() { <-primary.done },
			func() { <-secondary.done },
		)
	})
	return both
}

func (l *Loader) insertPreconnect() {
	l.doc.insert("preconnect|"+GoogleFontsOrigin, Link{Rel: RelPreconnect, Href: GoogleFontsOrigin})
	l.doc.insert("preconnect|"+GoogleFontsStaticOrigin, Link{Rel: RelPreconnect, Href: GoogleFontsStaticOrigin, CrossOrigin: true})
}
