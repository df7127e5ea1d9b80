package entity

// Question is one dataset record: the text to answer, the document it is
// answered from, and the reference answer used at evaluation time. Immutable
// once loaded.
type Question struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	DocumentRef     string `json:"document_ref"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Snippet is a retrieved span of source text believed relevant to a question.
type Snippet struct {
	SourceSpan string `json:"source_span"`
	Text       string `json:"text"`
}

// LineItem is a labeled numeric fact extracted from snippets. Value is the
// scale-normalized number (e.g. "$1.2 billion" -> 1.2e9) and Unit tags how to
// read it. SourceSnippet is an index into the snippet sequence for
// traceability only; -1 when unknown.
type LineItem struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	Unit          Unit    `json:"unit"`
	SourceSnippet int     `json:"source_snippet"`
}

// Unit tags a LineItem value.
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitPlain    Unit = "plain"
)
