// Package id generates repository-assigned record identifiers.
package id

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Record prefixes. Each kind of record gets its own prefix so ids stay
// readable in backups and logs.
const (
	PrefixBook  = "book_"
	PrefixPlan  = "plan_"
	PrefixLog   = "log_"
	PrefixImage = "img_"
)

const (
	timestampLayout = "20060102150405" // 14 digits, UTC
	suffixAlphabet  = "0123456789"
	suffixLength    = 3
)

// Generate creates an ID in the form {prefix}{14-digit UTC timestamp}_{3 random digits}
// (e.g., "log_20250114093012_042").
//
// Ids generated in the same second share 1000 suffixes, so bulk writes do
// collide. The repository rejects a colliding create with a duplicate key
// error and retries with a new id.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	return GenerateAt(prefix, time.Now())
}

// GenerateAt is Generate with the timestamp part taken from now.
func GenerateAt(prefix string, now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate id suffix: %w", err)
	}
	return prefix + now.UTC().Format(timestampLayout) + "_" + suffix, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
