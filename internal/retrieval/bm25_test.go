package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopKChunksRanksRelevantFirst(t *testing.T) {
	chunks := []string{
		"the company paid dividends to shareholders in cash",
		"total revenue for fiscal 2022 was 500 million dollars",
		"employee headcount grew across all regions this year",
	}

	top := TopKChunks("what was total revenue in 2022", chunks, 2)
	require.Len(t, top, 2)
	assert.Equal(t, chunks[1], top[0])
}

func TestTopKChunksFewerThanK(t *testing.T) {
	chunks := []string{"only one chunk"}
	top := TopKChunks("anything", chunks, 5)
	require.Len(t, top, 1)
	assert.Equal(t, chunks[0], top[0])
}

func TestTopKChunksEmptyInputs(t *testing.T) {
	assert.Nil(t, TopKChunks("query", nil, 3))
	assert.Nil(t, TopKChunks("query", []string{"a"}, 0))
}

func TestTopKChunksStableOnNoMatch(t *testing.T) {
	chunks := []string{"alpha beta", "gamma delta", "epsilon zeta"}
	top := TopKChunks("unrelated query terms", chunks, 3)
	require.Len(t, top, 3)
	// zero-scoring chunks keep their input order
	assert.Equal(t, chunks, top)
}
