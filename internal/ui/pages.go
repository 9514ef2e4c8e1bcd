// Package ui provides the Datastar-based font pairing playground.
package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	data "maragu.dev/gomponents-datastar"
)

// Fill is a sample text rendered in the pair.
type Fill struct {
	Title string
	Body  string
}

var fills = []Fill{
	{
		Title: "A Midsummer's Reverie",
		Body: "It is a truth universally acknowledged, that a single man in possession of a good fortune, " +
			"must be in want of a wife. However little known the feelings or views of such a man may be on his " +
			"first entering a neighbourhood, this truth is so well fixed in the minds of the surrounding families, " +
			"that he is considered the rightful property of some one or other of their daughters.",
	},
	{
		Title: "The Wanderer's Journal",
		Body: "Call me Ishmael. Some years ago, never mind how long precisely, having little or no money in my " +
			"purse, and nothing particular to interest me on shore, I thought I would sail about a little and see " +
			"the watery part of the world.",
	},
	{
		Title: "Letters from the Observatory",
		Body: "Many years later, as he faced the firing squad, Colonel Aureliano Buendia was to remember that " +
			"distant afternoon when his father took him to discover ice. At that time Macondo was a village of " +
			"twenty adobe houses, built on the bank of a river of clear water.",
	},
}

// Playground is everything the playground page renders for one session.
type Playground struct {
	SessionID string
	State     session.State
	Families  []string
	Links     []font.Link
	Snapshots []*snapshot.Snapshot
}

// Layout wraps content in the base HTML layout. head carries the font links.
func Layout(title string, head []g.Node, content ...g.Node) g.Node {
	return h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			g.Group(head),
			h.Script(h.Type("module"), h.Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js")),
			h.StyleEl(h.Type("text/css"), g.Raw(styles)),
		),
		h.Body(
			h.Nav(h.Class("navbar"),
				h.Div(h.Class("nav-brand"), g.Text("plat-fontmatch")),
				h.Div(h.Class("nav-links"),
					h.A(h.Href("/"), g.Text("New session")),
					h.A(h.Href("/api/v1/fonts"), g.Text("Catalog")),
				),
			),
			h.Main(h.Class("container"), g.Group(content)),
			h.Footer(h.Class("footer"),
				g.Text("plat-fontmatch - Google Fonts pairing playground"),
			),
		),
	)
}

// FontLinks renders document head links. Preconnect links come first.
func FontLinks(links []font.Link) []g.Node {
	nodes := make([]g.Node, 0, len(links))
	for _, l := range links {
		attrs := []g.Node{h.Rel(l.Rel), h.Href(l.Href)}
		if l.CrossOrigin {
			attrs = append(attrs, g.Attr("crossorigin"))
		}
		nodes = append(nodes, h.Link(attrs...))
	}
	return nodes
}

// PlaygroundPage renders the pairing playground for one session.
func PlaygroundPage(p Playground) g.Node {
	base := "/ui/" + p.SessionID

	return Layout("Font pairing - plat-fontmatch", FontLinks(p.Links),
		data.Signals(map[string]any{
			"sessionId":      p.SessionID,
			"lock":           string(p.State.Lock),
			"version":        p.State.Version,
			"fontCount":      p.State.FontCount,
			"catalogLoading": p.State.CatalogLoading,
			"updating":       false,
			"pickFamily":     "",
			"fill":           0,
			"error":          "",
		}),
		data.Init("window.history.replaceState(null, '', '/s/"+p.SessionID+"')"),
		data.OnInterval("$catalogLoading && @get('"+base+"/state')", data.ModifierDuration, data.Duration(2*time.Second)),

		h.Div(h.Class("toolbar"),
			h.Button(
				data.On("click", "$updating = true; @post('"+base+"/shuffle')"),
				data.Attr("disabled", "$updating"),
				h.Span(data.Show("!$updating"), g.Text("Shuffle")),
				h.Span(data.Show("$updating"), h.Span(h.Class("loading-spinner")), g.Text(" Loading fonts...")),
			),
			h.Button(
				data.On("click", "@post('"+base+"/lock/primary')"),
				data.Class("active", "$lock === 'primary'"),
				g.Text("Lock primary"),
			),
			h.Button(
				data.On("click", "@post('"+base+"/lock/secondary')"),
				data.Class("active", "$lock === 'secondary'"),
				g.Text("Lock secondary"),
			),
			h.Button(
				data.On("click", "@post('"+base+"/snapshots')"),
				g.Text("Save pair"),
			),
			h.Span(h.Class("hint"),
				data.Text("$catalogLoading ? 'Loading the full catalog...' : $fontCount + ' fonts'"),
			),
		),

		h.Div(h.Class("fill-bar"), fillButtons()),

		PairSpecimen(p.State.Pair, p.Links),

		h.Div(h.Class("section"),
			h.H2(g.Text("Pick a font")),
			h.Div(h.Class("pick"),
				h.Input(h.Type("text"), g.Attr("list", "families"), data.Bind("pickFamily"),
					h.Placeholder("Family name, e.g. Playfair Display"),
				),
				familyList(p.Families),
				h.Button(
					data.On("click", "$updating = true; @post('"+base+"/pick/primary')"),
					data.Attr("disabled", "$updating || !$pickFamily"),
					g.Text("Use as primary"),
				),
				h.Button(
					data.On("click", "$updating = true; @post('"+base+"/pick/secondary')"),
					data.Attr("disabled", "$updating || !$pickFamily"),
					g.Text("Use as secondary"),
				),
			),
			h.P(h.Class("error"), data.Show("$error"), data.Text("$error")),
		),

		SnapshotList(p.SessionID, p.Snapshots),
	)
}

// familyList renders the #families datalist backing the pick input.
func familyList(families []string) g.Node {
	options := make([]g.Node, 0, len(families))
	for _, family := range families {
		options = append(options, h.Option(h.Value(family)))
	}
	return g.El("datalist", h.ID("families"), g.Group(options))
}

func fillButtons() g.Node {
	nodes := make([]g.Node, 0, len(fills))
	for i, f := range fills {
		idx := strconv.Itoa(i)
		nodes = append(nodes, h.Button(h.Class("small"),
			data.On("click", "$fill = "+idx),
			data.Class("active", "$fill === "+idx),
			g.Text(f.Title),
		))
	}
	return g.Group(nodes)
}

// PairSpecimen renders the #pair element: the stylesheets of both families
// followed by every sample text set in the pair.
func PairSpecimen(pair font.Pair, links []font.Link) g.Node {
	var sheets []font.Link
	for _, l := range links {
		if l.Rel == font.RelStylesheet && (l.Family == pair.Primary.Family || l.Family == pair.Secondary.Family) {
			sheets = append(sheets, l)
		}
	}

	specimens := make([]g.Node, 0, len(fills))
	for i, f := range fills {
		specimens = append(specimens, h.Article(h.Class("specimen"),
			data.Show(fmt.Sprintf("$fill === %d", i)),
			h.H1(h.StyleAttr("font-family: "+pair.Primary.Stack()), g.Text(f.Title)),
			h.P(h.StyleAttr("font-family: "+pair.Secondary.Stack()), g.Text(f.Body)),
		))
	}

	return h.Section(h.ID("pair"), h.Class("section"),
		g.Group(FontLinks(sheets)),
		h.Div(h.Class("pair-labels"),
			FontLabel("Primary", pair.Primary),
			FontLabel("Secondary", pair.Secondary),
		),
		g.Group(specimens),
	)
}

// FontLabel renders a family name with its category and CSS stack.
func FontLabel(role string, e font.Entry) g.Node {
	return h.Div(h.Class("font-label"),
		h.Div(h.Class("stat-label"), g.Text(role)),
		h.Div(h.Class("family"), g.Text(e.Family)),
		h.Code(g.Text(e.Stack())),
	)
}

// SnapshotList renders the #snapshots element.
func SnapshotList(sessionID string, snaps []*snapshot.Snapshot) g.Node {
	base := "/ui/" + sessionID + "/snapshots/"

	if len(snaps) == 0 {
		return h.Div(h.ID("snapshots"), h.Class("section"),
			h.H2(g.Text("Saved pairs")),
			h.P(h.Class("hint"), g.Text("Nothing saved yet")),
		)
	}

	items := make([]g.Node, 0, len(snaps))
	for _, s := range snaps {
		items = append(items, h.Li(h.Class("snapshot"),
			h.Span(g.Text(s.Primary+" / "+s.Secondary)),
			h.Span(h.Class("hint"), g.Text(s.SavedAt.Local().Format("Jan 2 15:04"))),
			h.Button(h.Class("small"),
				data.On("click", "$updating = true; @post('"+base+s.ID+"/load')"),
				g.Text("Load"),
			),
			h.Button(h.Class("small secondary"),
				data.On("click", "@delete('"+base+s.ID+"')"),
				g.Text("Remove"),
			),
		))
	}

	return h.Div(h.ID("snapshots"), h.Class("section"),
		h.H2(g.Text("Saved pairs")),
		h.Ul(g.Group(items)),
	)
}

// MissingSession renders the page shown for an expired session link.
func MissingSession() g.Node {
	return Layout("Session expired - plat-fontmatch", nil,
		h.H1(g.Text("Session expired")),
		h.P(h.Class("hint"), g.Text("This pairing session is no longer available.")),
		h.A(h.Href("/"), h.Button(g.Text("Start a new session"))),
	)
}

const styles = `
:root {
	--primary: #6366f1;
	--primary-dark: #4f46e5;
	--danger: #ef4444;
	--bg: #f8fafc;
	--card-bg: #ffffff;
	--text: #1e293b;
	--text-muted: #64748b;
	--border: #e2e8f0;
}

* {
	box-sizing: border-box;
	margin: 0;
	padding: 0;
}

body {
	font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
	background: var(--bg);
	color: var(--text);
	line-height: 1.6;
}

.navbar {
	background: var(--primary);
	color: white;
	padding: 1rem 2rem;
	display: flex;
	justify-content: space-between;
	align-items: center;
	box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}

.nav-brand {
	font-size: 1.5rem;
	font-weight: bold;
}

.nav-links a {
	color: white;
	text-decoration: none;
	margin-left: 2rem;
	opacity: 0.9;
}

.container {
	max-width: 1000px;
	margin: 0 auto;
	padding: 2rem;
}

.footer {
	text-align: center;
	padding: 2rem;
	color: var(--text-muted);
	border-top: 1px solid var(--border);
	margin-top: 2rem;
}

h2 {
	margin-bottom: 1rem;
	font-size: 1.25rem;
}

.section {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1.5rem;
	margin-bottom: 1.5rem;
	border: 1px solid var(--border);
}

.toolbar, .fill-bar, .pick {
	display: flex;
	gap: 0.75rem;
	flex-wrap: wrap;
	align-items: center;
	margin-bottom: 1rem;
}

button {
	background: var(--primary);
	color: white;
	border: none;
	padding: 0.75rem 1.5rem;
	border-radius: 8px;
	cursor: pointer;
	font-size: 1rem;
	font-weight: 500;
	transition: background 0.2s;
}

button:hover {
	background: var(--primary-dark);
}

button:disabled {
	background: var(--text-muted);
	cursor: not-allowed;
}

button.active {
	background: var(--primary-dark);
	box-shadow: inset 0 2px 4px rgba(0,0,0,0.2);
}

button.small {
	padding: 0.4rem 0.9rem;
	font-size: 0.875rem;
}

button.secondary {
	background: var(--text-muted);
}

.pair-labels {
	display: grid;
	grid-template-columns: 1fr 1fr;
	gap: 1rem;
	margin-bottom: 1.5rem;
}

.font-label .family {
	font-size: 1.25rem;
	font-weight: 600;
}

.font-label code {
	color: var(--text-muted);
	font-size: 0.8rem;
}

.stat-label {
	color: var(--text-muted);
	font-size: 0.75rem;
	text-transform: uppercase;
	letter-spacing: 0.05em;
}

.specimen h1 {
	font-size: 3rem;
	line-height: 1.2;
	margin-bottom: 1rem;
}

.specimen p {
	font-size: 1.125rem;
	line-height: 1.7;
}

.pick input {
	flex: 1;
	min-width: 240px;
	padding: 0.75rem;
	border: 1px solid var(--border);
	border-radius: 8px;
	font-size: 1rem;
}

.snapshot {
	list-style: none;
	display: flex;
	gap: 1rem;
	align-items: center;
	padding: 0.5rem 0;
	border-bottom: 1px solid var(--border);
}

.snapshot span:first-child {
	flex: 1;
	font-weight: 500;
}

.hint {
	color: var(--text-muted);
	font-style: italic;
}

.error {
	color: var(--danger);
	margin-top: 0.5rem;
}

.loading-spinner {
	display: inline-block;
	width: 16px;
	height: 16px;
	border: 2px solid var(--border);
	border-top-color: white;
	border-radius: 50%;
	animation: spin 1s linear infinite;
}

@keyframes spin {
	to { transform: rotate(360deg); }
}

@media (max-width: 768px) {
	.pair-labels {
		grid-template-columns: 1fr;
	}
}
`
