package font

const (
	// GoogleFontsAPI is the base URL for Google Fonts CSS API
	GoogleFontsAPI = "https://fonts.googleapis.com/css2"

	// GoogleFontsMetadataURL lists every family with its weights and category
	GoogleFontsMetadataURL = "https://fonts.google.com/metadata/fonts"

	// GoogleFontsOrigin serves the stylesheets
	GoogleFontsOrigin = "https://fonts.googleapis.com"

	// GoogleFontsStaticOrigin serves the font files referenced by the stylesheets
	GoogleFontsStaticOrigin = "https://fonts.gstatic.com"

	// MinWeight and MaxWeight bound the numeric weight axis
	MinWeight = 100
	MaxWeight = 900

	// DefaultFontWeight is the standard font weight used when not specified
	DefaultFontWeight = 400
)

// DefaultWeights are assigned to catalog records that expose no weight data.
var DefaultWeights = []int{400, 700}

// DefaultTargetWeights is the small representative set a stylesheet request is
// reduced to.
var DefaultTargetWeights = []int{300, 400, 700}
