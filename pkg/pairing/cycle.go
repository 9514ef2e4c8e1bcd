package pairing

// cycle dispenses a traversal order one element at a time and regenerates
// it with fresh randomness once exhausted.
type cycle[T any] struct {
	kind     string
	order    []T
	index    int
	generate func() []T
}

func newCycle[T any](kind string, generate func() []T) *cycle[T] {
	return &cycle[T]{kind: kind, generate: generate}
}

func (c *cycle[T]) exhausted() bool {
	return c.index >= len(c.order)
}

func (c *cycle[T]) regenerate() {
	c.order = c.generate()
	c.index = 0
	regenerations.Inc(c.kind)
}

// next returns the next element, regenerating first when exhausted.
func (c *cycle[T]) next() (T, bool) {
	if c.exhausted() {
		c.regenerate()
	}
	if c.exhausted() {
		var zero T
		return zero, false
	}
	v := c.order[c.index]
	c.index++
	return v, true
}

// nextWhere skips forward past elements rejected by keep, up to the cycle's
// length. When the cycle runs out it regenerates once and tries again before
// giving up.
func (c *cycle[T]) nextWhere(keep func(T) bool) (T, bool) {
	if c.exhausted() {
		c.regenerate()
	}
	for attempt := 0; attempt < 2; attempt++ {
		for !c.exhausted() {
			v := c.order[c.index]
			c.index++
			if keep(v) {
				return v, true
			}
		}
		if attempt == 0 {
			c.regenerate()
		}
	}
	var zero T
	return zero, false
}
