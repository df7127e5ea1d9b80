package retrieval

import (
	"math"
	"sort"
	"strings"
)

// BM25 Okapi parameters, standard values.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// TopKChunks scores chunks against the query with BM25 and returns the k
// best, highest score first. Fewer than k chunks come back as-is (still
// ranked). Zero-scoring chunks are kept so the result length is predictable
// for short documents.
func TopKChunks(query string, chunks []string, k int) []string {
	if len(chunks) == 0 || k <= 0 {
		return nil
	}

	docs := make([][]string, len(chunks))
	docFreq := make(map[string]int)
	var totalLen float64
	for i, c := range chunks {
		docs[i] = tokenize(c)
		totalLen += float64(len(docs[i]))
		seen := make(map[string]struct{}, len(docs[i]))
		for _, t := range docs[i] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}
	avgLen := totalLen / float64(len(chunks))

	queryTokens := tokenize(query)
	n := float64(len(chunks))

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(chunks))
	for i, doc := range docs {
		tf := make(map[string]int, len(doc))
		for _, t := range doc {
			tf[t]++
		}
		var s float64
		for _, q := range queryTokens {
			f := float64(tf[q])
			if f == 0 {
				continue
			}
			df := float64(docFreq[q])
			idf := math.Log((n-df+0.5)/(df+0.5) + 1)
			s += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*float64(len(doc))/avgLen))
		}
		scores[i] = scored{idx: i, score: s}
	}

	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if k > len(chunks) {
		k = len(chunks)
	}
	out := make([]string, 0, k)
	for _, sc := range scores[:k] {
		out = append(out, chunks[sc.idx])
	}
	return out
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
