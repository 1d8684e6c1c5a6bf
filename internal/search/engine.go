package search

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/smith-tools/sosumi/internal/logging"
	"github.com/smith-tools/sosumi/internal/query"
	"github.com/smith-tools/sosumi/internal/store"
)

// ExecutionError wraps a SQLite prepare/step/finalize failure. It is
// always a per-call, never-fatal error.
type ExecutionError struct {
	Detail string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %s", e.Detail)
}

// Engine runs validated queries against a *store.DB and maps rows to
// Session/Result values, preserving SQLite's row order and never
// substituting defaults for NULL columns.
type Engine struct {
	db *store.DB
}

// NewEngine wraps db.
func NewEngine(db *store.DB) *Engine {
	return &Engine{db: db}
}

// Search executes a free-text query and returns results in BM25 order
// (smaller score = more relevant). An empty slice, not an error, is
// returned for zero hits.
func (e *Engine) Search(term string, limit, offset int) ([]Result, error) {
	defer logging.Since(logging.CategorySearch, "Search", time.Now())

	sqlText, err := query.BuildSearch(term, limit, offset)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.Query(sqlText)
	if err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var sess Session
		var score float64
		if err := scanRow(rows, &sess, &score); err != nil {
			return nil, &ExecutionError{Detail: err.Error()}
		}
		results = append(results, Result{Session: sess, RelevanceScore: score})
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

// GetSession looks up a single session by id. A zero hit returns (nil, nil),
// never an error — only infrastructure failures are errors.
func (e *Engine) GetSession(id string) (*Session, error) {
	defer logging.Since(logging.CategorySearch, "GetSession", time.Now())

	sqlText, err := query.BuildSessionLookup(id)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.Query(sqlText)
	if err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &ExecutionError{Detail: err.Error()}
		}
		return nil, nil
	}

	var sess Session
	if err := scanRow(rows, &sess, nil); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	return &sess, nil
}

// ListYear returns up to limit sessions for year, ordered by session number
// ascending. An empty slice is returned for zero hits.
func (e *Engine) ListYear(year, limit int) ([]Session, error) {
	defer logging.Since(logging.CategorySearch, "ListYear", time.Now())

	sqlText, err := query.BuildByYear(year, limit)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.Query(sqlText)
	if err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := scanRow(rows, &sess, nil); err != nil {
			return nil, &ExecutionError{Detail: err.Error()}
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}

// Statistics runs the six fixed aggregate queries and assembles a snapshot.
func (e *Engine) Statistics() (*Statistics, error) {
	defer logging.Since(logging.CategorySearch, "Statistics", time.Now())

	qs := query.StatisticsQueries()
	var stats Statistics

	if err := e.db.QueryRow(qs[0]).Scan(&stats.TotalSessions); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	if err := e.db.QueryRow(qs[1]).Scan(&stats.SessionsWithTranscript); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	if err := e.db.QueryRow(qs[2]).Scan(&stats.TotalWordCount); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	if err := e.db.QueryRow(qs[3]).Scan(&stats.AverageDurationSecs); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	var minYear, maxYear sql.NullInt64
	if err := e.db.QueryRow(qs[4]).Scan(&minYear, &maxYear); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}
	stats.MinYear = int(minYear.Int64)
	stats.MaxYear = int(maxYear.Int64)
	if err := e.db.QueryRow(qs[5]).Scan(&stats.DistinctSessionTypes); err != nil {
		return nil, &ExecutionError{Detail: err.Error()}
	}

	return &stats, nil
}

// rowScanner is satisfied by *sql.Rows; it lets scanRow work against either
// Search's multi-row cursor or GetSession's single-row cursor.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRow maps one row of the shared projection into sess, normalizing
// nullable columns to absent (nil) values rather than substituting
// defaults. If score is non-nil, an extra bm25(...) column is scanned into
// it.
func scanRow(rows rowScanner, sess *Session, score *float64) error {
	var (
		typ         sql.NullString
		duration    sql.NullInt64
		description sql.NullString
		webURL      sql.NullString
		content     sql.NullString
		wordCount   sql.NullInt64
	)

	dest := []interface{}{
		&sess.ID, &sess.Title, &sess.Year, &sess.SessionNumber,
		&typ, &duration, &description, &webURL, &content, &wordCount,
	}
	if score != nil {
		dest = append(dest, score)
	}

	if err := rows.Scan(dest...); err != nil {
		return err
	}

	if typ.Valid {
		sess.Type = &typ.String
	}
	if duration.Valid {
		v := int(duration.Int64)
		sess.DurationSecs = &v
	}
	if description.Valid {
		sess.Description = &description.String
	}
	if webURL.Valid {
		sess.WebURL = &webURL.String
	}
	if content.Valid {
		sess.Transcript = &content.String
	}
	if wordCount.Valid {
		v := int(wordCount.Int64)
		sess.WordCount = &v
	}
	return nil
}
