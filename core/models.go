package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities. Fragment IDs are dense,
// zero-based, and stable within one index build; fingerprint IDs are
// generated with content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is one raw source text, produced by an external loader.
// Immutable; one per source file or dataset row.
type Document struct {
	ID          string
	Title       string
	Text        string
	SourceLabel string
}

// Fragment is a bounded, possibly overlapping slice of a document's text.
// It is the unit indexed and retrieved.
type Fragment struct {
	Id          ID
	DocumentID  string
	Title       string
	Text        string
	SourceLabel string
}

// Source tags whether an answer was grounded in indexed documents or
// produced without retrieved context.
type Source int

const (
	// SourceKB marks answers grounded in the knowledge base.
	SourceKB Source = iota + 1
	// SourceWeb marks answers produced without retrieved context.
	SourceWeb
)

func (s Source) String() string {
	switch s {
	case SourceKB:
		return "kb"
	case SourceWeb:
		return "web"
	default:
		return "unknown"
	}
}

// ScoredFragment pairs a fragment with its similarity score. Scores are
// inner products of unit vectors (cosine similarity) for vector-search
// matches, and 1.0 for exact structural matches.
type ScoredFragment struct {
	Fragment Fragment
	Score    float32
}

// QueryResult is the terminal output of query resolution.
type QueryResult struct {
	Answer  string
	Source  Source
	Matches []ScoredFragment
}

// IndexMeta describes a persisted index. An index is tagged with the
// dimension and model actually used; mixed dimensionalities within one
// index are rejected at build time.
type IndexMeta struct {
	Dimension     int
	FragmentCount int
	DocumentCount int
	Model         string
	Fingerprint   ID
	BuiltAt       time.Time
}

/// IndexArtifact is the persisted form of a built index: fragment metadata
// and the vector table, aligned by fragment id.
type IndexArtifact struct {
	Fragments []Fragment
	Vectors   [][]float32
	Meta      *IndexMeta
}

// BuildReport summarizes a completed index build.
type BuildReport struct {
	DocumentCount int
	FragmentCount int
	Dimension     int
	Model         string
	Fingerprint   ID
}
