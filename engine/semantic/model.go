package semantic

// DocKind distinguishes the two document families stored in the collection.
type DocKind string

const (
	KindArticle DocKind = "article"
	KindLaunch  DocKind = "launch"
)

// VectorRecord is one embedded chunk headed for the vector store.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Kind      DocKind
	DocID     int64 // article or launch id, per Kind
	Title     string
	Content   string
	Chunk     int
}

// SearchResult is a single similarity-search hit.
type SearchResult struct {
	ID      string
	Score   float32
	Kind    DocKind
	DocID   int64
	Title   string
	Content string
	Chunk   int
}
