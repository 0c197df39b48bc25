// Package chunk splits document text into overlapping fixed-size fragments.
//
// Chunking is a pure function over a single document's text: the same
// input always yields the identical fragment sequence, and no I/O is
// performed. Fragments are the unit of indexing and retrieval.
package chunk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig indicates invalid chunking parameters.
var ErrConfig = errors.New("invalid chunking configuration")

const (
	// DefaultMaxChars is the default fragment window size in characters.
	DefaultMaxChars = 800
	// DefaultOverlap is the default number of characters shared between
	// consecutive fragments of the same document.
	DefaultOverlap = 50
)

// Split slides a window of maxChars characters across text, advancing by
// maxChars-overlap each step. The final fragment may be shorter than
// maxChars. Empty or whitespace-only text produces zero fragments.
// Characters are Unicode code points, so multi-byte text never splits
// mid-rune.
func Split(text string, maxChars, overlap int) ([]string, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: maxChars must be positive, got %d", ErrConfig, maxChars)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrConfig, overlap)
	}
	if overlap >= maxChars {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than maxChars %d", ErrConfig, overlap, maxChars)
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := maxChars - overlap

	var fragments []string
	for start := 0; start < len(runes); start += step {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		fragments = append(fragments, string(runes[start:end]))
	}

	return fragments, nil
}
