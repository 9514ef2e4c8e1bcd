package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
)

// metadataDocument accepts the Google Fonts metadata listing
// (familyMetadataList), the Web Fonts developer API (items) and the
// catalog cache layout (fonts).
type metadataDocument struct {
	FamilyMetadataList []metadataFamily `json:"familyMetadataList"`
	Items              []metadataFamily `json:"items"`
	Fonts              []metadataFamily `json:"fonts"`
}

type metadataFamily struct {
	Family   string                     `json:"family"`
	Category string                     `json:"category"`
	Weights  []int                      `json:"weights"`
	Fonts    map[string]json.RawMessage `json:"fonts"`
	Variants []string                   `json:"variants"`
	Axes     []metadataAxis             `json:"axes"`
}

type metadataAxis struct {
	Tag string  `json:"tag"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ParseMetadata maps a font metadata body into catalog entries. Anything
// before the first '{' is ignored, which strips the anti-hijacking prefix
// Google prepends to its metadata. Records without a family are dropped.
func ParseMetadata(body []byte) ([]font.Entry, error) {
	start := bytes.IndexByte(body, '{')
	if start < 0 {
		return nil, errors.New("catalog: metadata body holds no JSON object")
	}

	var doc metadataDocument
	if err := json.Unmarshal(body[start:], &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode metadata: %w", err)
	}

	records := slices.Concat(doc.FamilyMetadataList, doc.Items, doc.Fonts)
	entries := make([]font.Entry, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		family := strings.TrimSpace(r.Family)
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		entries = append(entries, font.Entry{
			Family:   family,
			Weights:  r.weights(),
			Category: font.ParseCategory(r.Category),
		})
	}
	return entries, nil
}

// weights prefers explicit per-weight data, then the wght axis range, then
// the default pair.
func (r metadataFamily) weights() []int {
	explicit := slices.Clone(r.Weights)
	for key := range r.Fonts {
		if w, ok := leadingWeight(key); ok {
			explicit = append(explicit, w)
		}
	}
	for _, v := range r.Variants {
		switch v {
		case "regular", "italic":
			explicit = append(explicit, font.DefaultFontWeight)
		default:
			if w, ok := leadingWeight(v); ok {
				explicit = append(explicit, w)
			}
		}
	}
	if w := font.NormalizeWeights(explicit); len(w) > 0 {
		return w
	}

	for _, axis := range r.Axes {
		if !strings.EqualFold(axis.Tag, "wght") {
			continue
		}
		lo, hi := clampWeight(roundHundred(axis.Min)), clampWeight(roundHundred(axis.Max))
		if lo > hi {
			lo, hi = hi, lo
		}
		var out []int
		for w := lo; w <= hi; w += 100 {
			out = append(out, w)
		}
		return out
	}

	return slices.Clone(font.DefaultWeights)
}

// leadingWeight parses the numeric prefix of keys such as "700" or "700i".
func leadingWeight(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	w, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return w, true
}

func roundHundred(v float64) int {
	return int(math.Round(v/100)) * 100
}

func clampWeight(w int) int {
	return min(max(w, font.MinWeight), font.MaxWeight)
}
