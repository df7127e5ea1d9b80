package retrieval

// ChunkBySection splits a document into fixed-size windows with a small
// overlap so that facts straddling a boundary survive in at least one chunk.
// Sizes are in runes: windows never cut a multi-byte character in half.
func ChunkBySection(doc string, maxChunkSize, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 3000
	}
	if overlap < 0 || overlap >= maxChunkSize {
		overlap = 20
	}
	if doc == "" {
		return nil
	}

	runes := []rune(doc)
	var sections []string
	step := maxChunkSize - overlap
	for start := 0; start < len(runes); start += step {
		end := start + maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		sections = append(sections, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return sections
}
