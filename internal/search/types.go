// Package search executes the query builder's SQL against the database
// handle and maps rows to domain values.
package search

// Session is one WWDC talk.
type Session struct {
	ID            string
	Title         string
	Year          int
	SessionNumber string
	Type          *string
	DurationSecs  *int
	Description   *string
	WebURL        *string
	Transcript    *string
	WordCount     *int
}

// Result pairs a Session with its BM25 relevance score. Lower is better.
type Result struct {
	Session        Session
	RelevanceScore float64
	MatchingText   []string
}

// Statistics is the aggregate snapshot produced by the fixed statistics
// queries.
type Statistics struct {
	TotalSessions          int
	SessionsWithTranscript int
	TotalWordCount         int64
	AverageDurationSecs    float64
	MinYear                int
	MaxYear                int
	DistinctSessionTypes   int
}
