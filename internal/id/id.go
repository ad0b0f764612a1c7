// Package id generates the prefixed identifiers used across the catalog.
// Every entity carries one: "cover-ocSXMHDuAMUY1wRKf_nJw", "review-...",
// and so on. The prefix makes an ID self-describing in logs and URLs.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a new ID of the form prefix-nanoid. The random part is a
// 21-character URL-safe NanoID, shorter than a UUID at comparable collision
// resistance. Fails only when the OS entropy source does.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is Generate for call sites where an entropy failure should
// crash the program, such as seeding and request-scoped entity creation.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
