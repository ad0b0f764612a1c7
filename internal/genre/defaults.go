package genre

import "strings"

// Defaults is the canonical genre list seeded into new catalogs.
var Defaults = []string{
	"Fiction",
	"Non-fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Horror",
	"Romance",
	"Historical Fiction",
	"Biography",
	"History",
	"Poetry",
	"Young Adult",
	"Self-Help",
	"Travel",
}

// canonicalAliases maps slugified variations to the canonical genre name.
var canonicalAliases = map[string]string{
	// Science Fiction variations
	"sci-fi":  "Science Fiction",
	"scifi":   "Science Fiction",
	"sf":      "Science Fiction",
	"sff":     "Science Fiction",
	"sci-fic": "Science Fiction",

	// Non-fiction variations
	"nonfiction":  "Non-fiction",
	"non-fiction": "Non-fiction",

	// Mystery/Thriller
	"suspense":         "Thriller",
	"crime":            "Mystery",
	"detective":        "Mystery",
	"mystery-thriller": "Mystery",
	"whodunit":         "Mystery",
	"psycho-thriller":  "Thriller",
	"psychological":    "Thriller",
	"scary":            "Horror",

	// Historical
	"historical":     "Historical Fiction",
	"hist-fic":       "Historical Fiction",
	"period-fiction": "Historical Fiction",

	// Biography/Memoir
	"memoir":              "Biography",
	"autobiography":       "Biography",
	"biographies-memoirs": "Biography",

	// Young Adult variations
	"ya":          "Young Adult",
	"teen":        "Young Adult",
	"young-adult": "Young Adult",

	// Self-Help
	"selfhelp":             "Self-Help",
	"self-help":            "Self-Help",
	"personal-development": "Self-Help",

	// Poetry
	"poems": "Poetry",
	"verse": "Poetry",
}

// Canonicalize maps a raw genre name to its canonical form.
// Returns the trimmed input unchanged when no alias matches, so catalog-specific
// genres pass through.
func Canonicalize(raw string) string {
	slug := Slugify(raw)
	if canonical, ok := canonicalAliases[slug]; ok {
		return canonical
	}

	// Match against the defaults by slug so casing variations collapse.
	for _, name := range Defaults {
		if Slugify(name) == slug {
			return name
		}
	}

	return strings.TrimSpace(raw)
}
