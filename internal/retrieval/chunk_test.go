package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkBySectionEmpty(t *testing.T) {
	assert.Nil(t, ChunkBySection("", 100, 10))
}

func TestChunkBySectionSingleChunk(t *testing.T) {
	chunks := ChunkBySection("short document", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0])
}

func TestChunkBySectionOverlap(t *testing.T) {
	doc := strings.Repeat("a", 250)
	chunks := ChunkBySection(doc, 100, 20)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 90)

	// consecutive chunks share the overlap window
	assert.Equal(t, chunks[0][80:], chunks[1][:20])

	// reassembling the steps covers the whole document
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[20:])
	}
	assert.Equal(t, doc, rebuilt.String())
}

func TestChunkBySectionMultiByteRunes(t *testing.T) {
	// every chunk must remain valid UTF-8 when the document mixes rune widths
	doc := strings.Repeat("€10 Umsätze – revenue ", 40)
	chunks := ChunkBySection(doc, 50, 10)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8", i)
	}

	// sizes count runes, not bytes
	assert.Equal(t, 50, utf8.RuneCountInString(chunks[0]))

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(string([]rune(c)[10:]))
	}
	assert.Equal(t, doc, rebuilt.String())
}

func TestChunkBySectionDefaults(t *testing.T) {
	doc := strings.Repeat("x", 5000)
	chunks := ChunkBySection(doc, 0, -1)
	require.NotEmpty(t, chunks)
	assert.Len(t, chunks[0], 3000)
}
