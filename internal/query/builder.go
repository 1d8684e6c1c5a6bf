// Package query validates caller input and builds the SQL strings the
// search engine executes. The FTS MATCH
// expression is embedded as an escaped literal rather than bound — a
// deliberate, documented workaround for the sqlite FTS5
// virtual-table driver's inability to bind MATCH parameters cleanly. Every
// other value in every query is either validated against a strict character
// class or interpolated as a bare, range-checked integer — never a
// caller-controlled string.
package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinYear = 2003
	MaxYear = 2030

	maxSearchTermLength = 1000
	minLimit            = 1
	maxLimit            = 1000
	minOffset           = 0
	maxOffset           = 100_000
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// ValidateTerm enforces the free-text search term rule: non-empty,
// length <= 1000, no control characters, valid UTF-8.
func ValidateTerm(term string) error {
	if term == "" {
		return &ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if strings.TrimSpace(term) == "" {
		return &ValidationError{Field: "query", Reason: "must not be whitespace-only"}
	}
	if !utf8.ValidString(term) {
		return &ValidationError{Field: "query", Reason: "must be valid UTF-8"}
	}
	if utf8.RuneCountInString(term) > maxSearchTermLength {
		return &ValidationError{Field: "query", Reason: fmt.Sprintf("must be at most %d characters", maxSearchTermLength)}
	}
	for _, r := range term {
		if r < 0x20 {
			return &ValidationError{Field: "query", Reason: "must not contain control characters"}
		}
	}
	return nil
}

// ValidateID enforces the session id character class rule.
func ValidateID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return &ValidationError{Field: "id", Reason: "must match [A-Za-z0-9_-]{1,100}"}
	}
	return nil
}

// ValidateYear enforces the supported year range.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return &ValidationError{Field: "year", Reason: fmt.Sprintf("must be in [%d, %d]", MinYear, MaxYear)}
	}
	return nil
}

// ValidateLimit enforces the allowed result-count range.
func ValidateLimit(limit int) error {
	if limit < minLimit || limit > maxLimit {
		return &ValidationError{Field: "limit", Reason: fmt.Sprintf("must be in [%d, %d]", minLimit, maxLimit)}
	}
	return nil
}

// ValidateOffset enforces the allowed pagination-offset range.
func ValidateOffset(offset int) error {
	if offset < minOffset || offset > maxOffset {
		return &ValidationError{Field: "offset", Reason: fmt.Sprintf("must be in [%d, %d]", minOffset, maxOffset)}
	}
	return nil
}

// escapeMatchTerm renders the free-text term as whitespace-separated quoted
// FTS5 phrase tokens, so query punctuation and FTS operators in user input
// are matched literally instead of parsed. Double quotes are doubled per
// FTS5 string rules; single quotes are then doubled so the whole expression
// embeds safely inside the surrounding SQL string literal.
func escapeMatchTerm(term string) string {
	fields := strings.Fields(term)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	expr := strings.Join(quoted, " ")
	return strings.ReplaceAll(expr, `'`, `''`)
}

// escapeIDLiteral doubles every single-quote so the id is safe to embed in a
// plain SQL string literal.
func escapeIDLiteral(id string) string {
	return strings.ReplaceAll(id, `'`, `''`)
}

const selectProjection = `s.id, s.title, s.year, s.session_number, s.type, s.duration, s.description, s.web_url, t.content, t.word_count`

// BuildSearch produces the canonical search query. term, limit, and offset
// are validated first; a failure returns a ValidationError and no SQL.
func BuildSearch(term string, limit, offset int) (string, error) {
	if err := ValidateTerm(term); err != nil {
		return "", err
	}
	if err := ValidateLimit(limit); err != nil {
		return "", err
	}
	if err := ValidateOffset(offset); err != nil {
		return "", err
	}

	escaped := escapeMatchTerm(term)
	return fmt.Sprintf(
		`SELECT %s, bm25(transcripts_fts) FROM transcripts_fts `+
			`JOIN sessions s ON transcripts_fts.session_id = s.id `+
			`LEFT JOIN transcripts t ON s.id = t.session_id `+
			`WHERE transcripts_fts MATCH '%s' `+
			`ORDER BY bm25(transcripts_fts) LIMIT %d OFFSET %d`,
		selectProjection, escaped, limit, offset,
	), nil
}

// BuildSessionLookup produces the canonical by-id query.
func BuildSessionLookup(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	escaped := escapeIDLiteral(id)
	return fmt.Sprintf(
		`SELECT %s FROM sessions s LEFT JOIN transcripts t ON s.id = t.session_id WHERE s.id = '%s'`,
		selectProjection, escaped,
	), nil
}

// BuildByYear produces the canonical by-year query.
func BuildByYear(year, limit int) (string, error) {
	if err := ValidateYear(year); err != nil {
		return "", err
	}
	if err := ValidateLimit(limit); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		`SELECT %s FROM sessions s LEFT JOIN transcripts t ON s.id = t.session_id `+
			`WHERE s.year = %d ORDER BY CAST(s.session_number AS INTEGER) LIMIT %d`,
		selectProjection, year, limit,
	), nil
}

// StatisticsQueries returns the fixed set of six aggregate queries, in a stable order.
func StatisticsQueries() []string {
	return []string{
		`SELECT COUNT(*) FROM sessions`,
		`SELECT COUNT(DISTINCT session_id) FROM transcripts`,
		`SELECT COALESCE(SUM(word_count), 0) FROM transcripts`,
		`SELECT COALESCE(AVG(duration), 0) FROM sessions WHERE duration IS NOT NULL`,
		`SELECT MIN(year), MAX(year) FROM sessions`,
		`SELECT COUNT(DISTINCT type) FROM sessions WHERE type IS NOT NULL`,
	}
}

// CurrentYearCeiling returns the latest year a session may legitimately
// claim: the current year plus one, to tolerate WWDC announcements that
// land slightly ahead of the calendar.
func CurrentYearCeiling() int {
	return time.Now().Year() + 1
}
