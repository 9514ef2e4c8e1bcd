package font

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// StylesheetURL builds the CSS2 API URL for a family at the given weights.
// Example: https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;700&display=swap
func StylesheetURL(base, family string, weights []int) string {
	if base == "" {
		base = GoogleFontsAPI
	}
	familyName := url.QueryEscape(strings.TrimSpace(family))

	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = strconv.Itoa(w)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s?family=%s&display=swap", base, familyName)
	}
	return fmt.Sprintf("%s?family=%s:wght@%s&display=swap", base, familyName, strings.Join(parts, ";"))
}

// ResolveWeights reduces the available weights of a family to the closest
// match for each target weight. Ties go to the lighter weight. The result is
// de-duplicated and sorted.
func ResolveWeights(available, targets []int) []int {
	available = NormalizeWeights(available)
	if len(targets) == 0 {
		targets = DefaultTargetWeights
	}
	if len(available) == 0 {
		return []int{DefaultFontWeight}
	}

	out := make([]int, 0, len(targets))
	for _, t := range targets {
		best := available[0]
		for _, w := range available[1:] {
			if abs(w-t) < abs(best-t) {
				best = w
			}
		}
		if !slices.Contains(out, best) {
			out = append(out, best)
		}
	}
	slices.Sort(out)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Fetcher retrieves a stylesheet and returns the font file URLs it references.
type Fetcher interface {
	Fetch(ctx context.Context, href string) ([]string, error)
}

// HTTPFetcher fetches Google Fonts stylesheets over HTTP, throttled by a
// token bucket so a burst of shuffles cannot hammer the CSS API.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a fetcher allowing perSecond requests. A
// non-positive rate disables throttling.
func NewHTTPFetcher(client *http.Client, perSecond int) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &HTTPFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, max(perSecond, 1)),
	}
}

// Fetch downloads the stylesheet at href and extracts the font file URLs.
func (f *HTTPFetcher) Fetch(ctx context.Context, href string) ([]string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, err
	}
	// A modern user agent makes the CSS API answer with woff2 sources
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stylesheet request returned status: %s", resp.Status)
	}

	css, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	return extractFontURLsFromCSS(string(css))
}

var fontSourceRE = regexp.MustCompile(`url\((https?://[^)]+)\)`)

// extractFontURLsFromCSS lists every url(...) source in a stylesheet.
func extractFontURLsFromCSS(css string) ([]string, error) {
	matches := fontSourceRE.FindAllStringSubmatch(css, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no font URL found in CSS")
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if !slices.Contains(urls, m[1]) {
			urls = append(urls, m[1])
		}
	}
	return urls, nil
}
