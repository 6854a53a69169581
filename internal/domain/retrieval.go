package domain

// TextChunk is the unit of embedding and retrieval. Chunks are produced once
// per corpus ingestion and never mutated afterwards.
type TextChunk struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Source  string `json:"source"`
	Chapter string `json:"chapter"`
	Index   int    `json:"index"`
}

// RetrievedDocument is a single ranked retrieval candidate. Score is cosine
// similarity in [-1, 1].
type RetrievedDocument struct {
	Content string  `json:"content"`
	Chapter string  `json:"chapter"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
}

// RetrieveResult carries both the documents that passed the similarity
// threshold and the ones that were filtered out, so callers can surface the
// rejected evidence.
type RetrieveResult struct {
	Docs      []RetrievedDocument `json:"docs"`
	Skipped   []RetrievedDocument `json:"skipped"`
	Threshold float64             `json:"threshold"`
}

// InitializeResult reports the outcome of a corpus ingestion run.
type InitializeResult struct {
	ChunksStored int    `json:"chunks_stored"`
	StoreType    string `json:"store_type"`
}
