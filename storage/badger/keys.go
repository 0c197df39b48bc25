package badger

import (
	"encoding/binary"

	"github.com/lexibase/lexibase/core"
)

// Key prefixes for index storage
const (
	generationPrefix  = "idxgen"
	currentGenKeyName = "idxcur"
	generationSeq     = "idxgenseq"

	fragmentSegment = "frag"
	vectorSegment   = "vec"
	metaSegment     = "meta"
)

// makeGenerationPrefix generates the key prefix covering every row of a
// generation. Format: prefix:generation:
func makeGenerationPrefix(generation uint64) []byte {
	prefix := generationPrefix + ":"
	buf := make([]byte, len(prefix)+9)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], generation)
	buf[offset+8] = ':'
	return buf
}

// makeRowPrefix generates the key prefix for one row type within a
// generation. Format: prefix:generation:segment:
func makeRowPrefix(generation uint64, segment string) []byte {
	genPrefix := makeGenerationPrefix(generation)
	buf := make([]byte, len(genPrefix)+len(segment)+1)
	offset := copy(buf, genPrefix)
	offset += copy(buf[offset:], segment)
	buf[offset] = ':'
	return buf
}

// makeFragmentKey generates a key for a fragment row.
// Format: prefix:generation:frag:id
func makeFragmentKey(generation uint64, id core.ID) []byte {
	return appendID(makeRowPrefix(generation, fragmentSegment), id)
}

// makeVectorKey generates a key for a vector row.
// Format: prefix:generation:vec:id
func makeVectorKey(generation uint64, id core.ID) []byte {
	return appendID(makeRowPrefix(generation, vectorSegment), id)
}

// makeMetaKey generates the key for a generation's metadata row.
// Format: prefix:generation:meta
func makeMetaKey(generation uint64) []byte {
	rowPrefix := makeRowPrefix(generation, metaSegment)
	return rowPrefix[:len(rowPrefix)-1]
}

// currentGenKey is the pointer key naming the published generation.
func currentGenKey() []byte {
	return []byte(currentGenKeyName)
}

func appendID(prefix []byte, id core.ID) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort matches id order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func encodeGeneration(generation uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, generation)
	return buf
}

func decodeGeneration(data []byte) (uint64, bool) {
	if len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}
