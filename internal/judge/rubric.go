package judge

// Rubric prompts for the four criteria. Each criterion is its own model
// call with a fixed rubric; the judge is lenient about surface form and
// strict about the underlying fact, mirroring how financial QA answers vary
// ("8.74" vs "$8.74 billion", "Consumer" vs "Consumer segment").

const judgePreamble = `You are an expert evaluator of financial question answering systems. You compare a predicted answer against a gold answer.

Be lenient about formatting and phrasing:
- Accept answers with or without units, currency symbols, or thousands separators
- Accept abbreviations (e.g., "M" for million, "B" for billion)
- Accept partial matches for segment names (e.g., "Consumer" matches "Consumer segment")
- Accept answers that include additional context or explanation
- For yes/no questions, accept any answer whose yes/no is correct

Return ONLY a JSON object matching the provided schema.`

const semanticRubric = `Criterion: SEMANTIC EQUIVALENCE.
Does the predicted answer convey the same fact as the gold answer, allowing paraphrase, extra context, and equivalent terminology? Set "verdict" true if the meaning matches.`

const numericRubric = `Criterion: NUMERICAL ACCURACY.
Do the numeric values in the predicted answer match the gold answer, allowing different scales, symbols, and decimal places? For non-numeric facts, the stated fact must match exactly. Set "verdict" true if the values agree.`

const formatRubric = `Criterion: FORMAT CONSISTENCY.
Does the predicted answer follow the shape the question expects (a single number vs. a sentence, a percentage vs. a dollar amount, yes/no plus reasoning)? Set "verdict" true if the shape is appropriate.`

const reasoningRubric = `Criterion: REASONING QUALITY.
Grade how coherent and well-supported the predicted answer's reasoning is on a 0.0-1.0 scale in "score" (1.0 = clear, correct reasoning; 0.0 = none or incoherent). Set "verdict" true when score >= 0.5.`
