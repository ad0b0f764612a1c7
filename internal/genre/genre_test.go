package genre

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "FICTION", "fiction"},
		{"spaces to dashes", "Science Fiction", "science-fiction"},
		{"already normalized", "science-fiction", "science-fiction"},
		{"punctuation", "Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"accents stripped", "Poésie", "poesie"},
		{"multiple dashes", "slow--burn", "slow-burn"},
		{"leading and trailing", " -Fiction- ", "fiction"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"alias sci-fi", "Sci-Fi", "Science Fiction"},
		{"alias memoir", "Memoir", "Biography"},
		{"alias ya", "YA", "Young Adult"},
		{"default by casing", "science fiction", "Science Fiction"},
		{"default exact", "Horror", "Horror"},
		{"unknown passes through", "Maritime Law", "Maritime Law"},
		{"unknown trimmed", "  Maritime Law  ", "Maritime Law"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.input); got != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
