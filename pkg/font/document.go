package font

import (
	"slices"
	"sync"
)

// Link rel values inserted into the document head.
const (
	RelPreconnect = "preconnect"
	RelStylesheet = "stylesheet"
)

// Link is one <link> element in the document head.
type Link struct {
	Rel         string
	Href        string
	CrossOrigin bool
	Family      string
	// Sources lists the font files the stylesheet referenced once it loaded.
	Sources []string
}

// Document is the process-wide head that stylesheet links are appended to.
// Pages render its links so every preview references each stylesheet once.
type Document struct {
	mu    sync.RWMutex
	links []Link
	index map[string]int
}

// NewDocument creates an empty document head.
func NewDocument() *Document {
	return &Document{index: make(map[string]int)}
}

// insert appends a link unless one with the same key exists. It reports
// whether the link was added.
func (d *Document) insert(key string, link Link) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.index[key]; ok {
		return false
	}
	d.index[key] = len(d.links)
	d.links = append(d.links, link)
	return true
}

// setSources records the font files a stylesheet resolved to.
func (d *Document) setSources(key string, sources []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i, ok := d.index[key]; ok {
		d.links[i].Sources = sources
	}
}

// Links returns a copy of the head links in insertion order.
func (d *Document) Links() []Link {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Link, len(d.links))
	for i, l := range d.links {
		l.Sources = slices.Clone(l.Sources)
		out[i] = l
	}
	return out
}

// Count returns how many links with the given rel are present.
func (d *Document) Count(rel string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := 0
	for _, l := range d.links {
		if l.Rel == rel {
			n++
		}
	}
	return n
}

// StylesheetsFor returns the stylesheet links inserted for the given families.
func (d *Document) StylesheetsFor(families ...string) []Link {
	var out []Link
	for _, l := range d.Links() {
		if l.Rel == RelStylesheet && slices.Contains(families, l.Family) {
			out = append(out, l)
		}
	}
	return out
}
