package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, node g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, node.Render(&b))
	return b.String()
}

func testPair() font.Pair {
	return font.Pair{
		Primary:   font.NewEntry("Playfair Display", []int{400, 700}, "serif"),
		Secondary: font.NewEntry("Caveat", nil, "handwriting"),
	}
}

func TestPairSpecimenIncludesOnlyPairStylesheets(t *testing.T) {
	links := []font.Link{
		{Rel: font.RelPreconnect, Href: "https://fonts.googleapis.com"},
		{Rel: font.RelStylesheet, Href: "https://fonts.googleapis.com/css2?family=Playfair+Display", Family: "Playfair Display"},
		{Rel: font.RelStylesheet, Href: "https://fonts.googleapis.com/css2?family=Inter", Family: "Inter"},
	}

	out := render(t, PairSpecimen(testPair(), links))
	assert.Contains(t, out, `id="pair"`)
	assert.Contains(t, out, "family=Playfair+Display")
	assert.NotContains(t, out, "family=Inter")
	assert.NotContains(t, out, "preconnect")
	assert.Contains(t, out, "cursive", "handwriting falls back to cursive")
}

func TestPlaygroundPage(t *testing.T) {
	out := render(t, PlaygroundPage(Playground{
		SessionID: "abc",
		State:     session.State{Pair: testPair(), Lock: session.LockPrimary, FontCount: 24},
		Families:  []string{"Caveat", "Playfair Display"},
		Links: []font.Link{
			{Rel: font.RelPreconnect, Href: "https://fonts.gstatic.com", CrossOrigin: true},
		},
		Snapshots: []*snapshot.Snapshot{
			{ID: "snap-1", SessionID: "abc", Primary: "Lora", Secondary: "Inter", SavedAt: time.Now()},
		},
	}))

	assert.Contains(t, out, `rel="preconnect"`)
	assert.Contains(t, out, "crossorigin")
	assert.Contains(t, out, "/ui/abc/shuffle")
	assert.Contains(t, out, "/ui/abc/lock/secondary")
	assert.Contains(t, out, `<option value="Caveat">`)
	assert.Contains(t, out, "/ui/abc/snapshots/snap-1/load")
	assert.Contains(t, out, "Lora / Inter")
}

func TestSnapshotListEmpty(t *testing.T) {
	out := render(t, SnapshotList("abc", nil))
	assert.Contains(t, out, `id="snapshots"`)
	assert.Contains(t, out, "Nothing saved yet")
}
