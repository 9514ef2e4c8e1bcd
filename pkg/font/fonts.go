// Package font defines the font catalog value types and loads Google Fonts
// stylesheets into a shared document head.
package font

import (
	"fmt"
	"slices"
	"strings"
)

// Category is the style classification of a font family.
type Category string

const (
	CategorySerif       Category = "serif"
	CategorySansSerif   Category = "sans-serif"
	CategoryDisplay     Category = "display"
	CategoryHandwriting Category = "handwriting"
	CategoryMonospace   Category = "monospace"
)

var categories = []Category{
	CategorySerif,
	CategorySansSerif,
	CategoryDisplay,
	CategoryHandwriting,
	CategoryMonospace,
}

// ParseCategory normalizes a category name case-insensitively. Spaces and
// underscores are treated as hyphens so "Sans Serif" maps to sans-serif.
// Unrecognized values default to sans-serif.
func ParseCategory(s string) Category {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, c := range categories {
		if string(c) == norm {
			return c
		}
	}
	return CategorySansSerif
}

// Generic returns the CSS generic family used when the web font is missing.
func (c Category) Generic() string {
	switch c {
	case CategorySerif, CategoryDisplay:
		return "serif"
	case CategoryHandwriting:
		return "cursive"
	case CategoryMonospace:
		return "monospace"
	default:
		return "sans-serif"
	}
}

// Entry is one font family in the catalog. Family is the identity key.
type Entry struct {
	Family   string   `json:"family"`
	Weights  []int    `json:"weights"`
	Category Category `json:"category"`
}

// NewEntry builds an Entry with normalized weights and category.
func NewEntry(family string, weights []int, category string) Entry {
	w := NormalizeWeights(weights)
	if len(w) == 0 {
		w = slices.Clone(DefaultWeights)
	}
	return Entry{
		Family:   strings.TrimSpace(family),
		Weights:  w,
		Category: ParseCategory(category),
	}
}

// Stack returns the CSS font-family value with the category fallback.
func (e Entry) Stack() string {
	return fmt.Sprintf("%q, %s", e.Family, e.Category.Generic())
}

// Pair assigns two distinct families to the primary and secondary roles.
type Pair struct {
	Primary   Entry `json:"primary"`
	Secondary Entry `json:"secondary"`
}

// Valid reports whether the pair holds two different families.
func (p Pair) Valid() bool {
	return p.Primary.Family != "" && p.Secondary.Family != "" && p.Primary.Family != p.Secondary.Family
}

// Same reports whether both slots hold the same families as o.
func (p Pair) Same(o Pair) bool {
	return p.Primary.Family == o.Primary.Family && p.Secondary.Family == o.Secondary.Family
}

func (p Pair) String() string {
	return p.Primary.Family + " / " + p.Secondary.Family
}

// NormalizeWeights de-duplicates weights, drops values outside [100,900] and
// sorts ascending.
func NormalizeWeights(weights []int) []int {
	out := make([]int, 0, len(weights))
	for _, w := range weights {
		if w < MinWeight || w > MaxWeight {
			continue
		}
		if !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return out
}

// Families returns the family names of entries in order.
func Families(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Family
	}
	return names
}

// SameFamilies reports whether a and b list the same families in the same order.
func SameFamilies(a, b []Entry) bool {
	return slices.Equal(Families(a), Families(b))
}

// Fallback returns a copy of the built-in catalog used when no remote or cached
// catalog is available.
func Fallback() []Entry {
	out := make([]Entry, len(fallbackFonts))
	for i, e := range fallbackFonts {
		out[i] = Entry{Family: e.Family, Weights: slices.Clone(e.Weights), Category: e.Category}
	}
	return out
}

var fallbackFonts = []Entry{
	{Family: "Playfair Display", Weights: []int{400, 500, 700, 900}, Category: CategorySerif},
	{Family: "Cormorant Garamond", Weights: []int{300, 400, 500, 600, 700}, Category: CategorySerif},
	{Family: "Libre Baskerville", Weights: []int{400, 700}, Category: CategorySerif},
	{Family: "DM Serif Display", Weights: []int{400}, Category: CategorySerif},
	{Family: "Lora", Weights: []int{400, 500, 600, 700}, Category: CategorySerif},
	{Family: "Source Serif 4", Weights: []int{300, 400, 600, 700}, Category: CategorySerif},
	{Family: "Bitter", Weights: []int{300, 400, 500, 700}, Category: CategorySerif},
	{Family: "Crimson Text", Weights: []int{400, 600, 700}, Category: CategorySerif},
	{Family: "DM Sans", Weights: []int{300, 400, 500, 700}, Category: CategorySansSerif},
	{Family: "Work Sans", Weights: []int{300, 400, 500, 600, 700}, Category: CategorySansSerif},
	{Family: "Outfit", Weights: []int{300, 400, 500, 600, 700}, Category: CategorySansSerif},
	{Family: "Sora", Weights: []int{300, 400, 500, 600, 700}, Category: CategorySansSerif},
	{Family: "Manrope", Weights: []int{300, 400, 500, 600, 700, 800}, Category: CategorySansSerif},
	{Family: "Public Sans", Weights: []int{300, 400, 500, 600, 700}, Category: CategorySansSerif},
	{Family: "Bricolage Grotesque", Weights: []int{400, 500, 600, 700, 800}, Category: CategorySansSerif},
	{Family: "Instrument Serif", Weights: []int{400}, Category: CategorySerif},
	{Family: "Fraunces", Weights: []int{300, 400, 500, 700, 900}, Category: CategorySerif},
	{Family: "Newsreader", Weights: []int{300, 400, 500, 600, 700}, Category: CategorySerif},
	{Family: "Alegreya", Weights: []int{400, 500, 700, 900}, Category: CategorySerif},
	{Family: "Chivo", Weights: []int{300, 400, 500, 700, 900}, Category: CategorySansSerif},
	{Family: "Archivo", Weights: []int{300, 400, 500, 600, 700, 900}, Category: CategorySansSerif},
	{Family: "Plus Jakarta Sans", Weights: []int{300, 400, 500, 600, 700, 800}, Category: CategorySansSerif},
	{Family: "Literata", Weights: []int{300, 400, 500, 700}, Category: CategorySerif},
	{Family: "Space Mono", Weights: []int{400, 700}, Category: CategoryMonospace},
}
