package render

import (
	"encoding/json"
	"time"

	"github.com/smith-tools/sosumi/internal/search"
)

// sessionCell is the JSON shape for one result. Fields are additive across
// modes: a lighter mode simply omits a field rather than emitting null.
type sessionCell struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year"`
	SessionNumber  string   `json:"sessionNumber"`
	Type           *string  `json:"type,omitempty"`
	DurationSecs   *int     `json:"durationSecs,omitempty"`
	WebURL         string   `json:"webUrl,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	Description    string   `json:"description,omitempty"`
	WordCount      *int     `json:"wordCount,omitempty"`
	Transcript     string   `json:"transcript,omitempty"`
	RelevanceScore *float64 `json:"relevanceScore,omitempty"`
}

type responseDoc struct {
	Query          string        `json:"query"`
	Mode           string        `json:"mode"`
	ResultCount    int           `json:"resultCount"`
	GeneratedAt    string        `json:"generatedAt"`
	Source         string        `json:"source"`
	AttributionURL string        `json:"attributionUrl"`
	Results        []sessionCell `json:"results"`
}

func buildCell(mode Mode, res search.Result) sessionCell {
	sess := res.Session
	score := res.RelevanceScore

	// The stored id is used rather than the reconstructed canonical form so
	// ids with alternative prefixes (tech-talks-*) re-fetch correctly.
	cell := sessionCell{
		ID:            sess.ID,
		Title:         sess.Title,
		Year:          sess.Year,
		SessionNumber: sess.SessionNumber,
	}

	switch mode {
	case ModeCompact:
		cell.DurationSecs = sess.DurationSecs
		cell.Topics = topicTagsFor(sess)
	case ModeUser:
		cell.DurationSecs = sess.DurationSecs
		cell.WebURL = webURLOrFallback(sess)
		cell.Description = userSnippet(sess)
	case ModeAgent:
		cell.Type = sess.Type
		cell.DurationSecs = sess.DurationSecs
		cell.WebURL = webURLOrFallback(sess)
		cell.RelevanceScore = &score
		cell.WordCount = sess.WordCount
		if sess.Description != nil {
			cell.Description = *sess.Description
		}
		if sess.Transcript != nil {
			cell.Transcript = *sess.Transcript
		}
	case ModeCompactAgent:
		cell.WebURL = webURLOrFallback(sess)
		cell.RelevanceScore = &score
		if sess.Description != nil {
			cell.Description = truncate(*sess.Description, 300)
		}
		tags := topicTagsFor(sess)
		if len(tags) > 3 {
			tags = tags[:3]
		}
		cell.Topics = tags
		if ps := paragraphs(sess.Transcript); len(ps) > 0 {
			if len(ps) > 2 {
				ps = ps[:2]
			}
			joined := ""
			for i, p := range ps {
				if i > 0 {
					joined += "\n\n"
				}
				joined += p
			}
			cell.Transcript = joined
		}
	}
	return cell
}

// renderListJSON builds the full response document for a result list.
func renderListJSON(queryText string, mode Mode, results []search.Result) ([]byte, error) {
	cells := make([]sessionCell, 0, len(results))
	for _, r := range results {
		cells = append(cells, buildCell(mode, r))
	}
	doc := responseDoc{
		Query:          queryText,
		Mode:           string(mode),
		ResultCount:    len(results),
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Source:         SourceLabel,
		AttributionURL: FallbackURL,
		Results:        cells,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// renderSessionJSON builds the single-session response document.
func renderSessionJSON(queryText string, mode Mode, sess search.Session) ([]byte, error) {
	res := search.Result{Session: sess, RelevanceScore: 0}
	return renderListJSON(queryText, mode, []search.Result{res})
}
