package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smith-tools/sosumi/internal/search"
)

// Rendered is the final output of a render call: either cell carries its
// own attribution, markdown as a literal phrase and json as a structured
// URL field, so callers can check ContainsAttribution uniformly.
// ResultCount lets callers distinguish an empty rendering, which is exempt
// from the attribution requirement, from one that must carry provenance.
type Rendered struct {
	Format      Format
	Text        string
	ResultCount int
}

// Renderer formats search results and sessions into the requested
// (mode, format) cell.
type Renderer struct {
	recencyWindow int // years back from now that still count as "recent"
}

// NewRenderer returns a ready-to-use Renderer. recencyWindowYears controls
// how far back from the current year a session still lands in the "Recent
// Sessions" group; values below 1 fall back to 1.
func NewRenderer(recencyWindowYears int) *Renderer {
	if recencyWindowYears < 1 {
		recencyWindowYears = 1
	}
	return &Renderer{recencyWindow: recencyWindowYears}
}

// RenderList renders a result list (search or list-by-year).
func (r *Renderer) RenderList(queryText string, mode Mode, format Format, results []search.Result) (Rendered, error) {
	switch format {
	case FormatMarkdown:
		return Rendered{Format: format, Text: renderListMarkdown(queryText, mode, results, r.recencyWindow), ResultCount: len(results)}, nil
	case FormatJSON:
		data, err := renderListJSON(queryText, mode, results)
		if err != nil {
			return Rendered{}, &RenderFailure{Reason: err.Error()}
		}
		return Rendered{Format: format, Text: string(data), ResultCount: len(results)}, nil
	default:
		return Rendered{}, &RenderFailure{Reason: "unknown format"}
	}
}

// RenderSession renders a single session lookup.
func (r *Renderer) RenderSession(queryText string, mode Mode, format Format, sess search.Session) (Rendered, error) {
	switch format {
	case FormatMarkdown:
		return Rendered{Format: format, Text: renderSessionMarkdown(queryText, mode, sess), ResultCount: 1}, nil
	case FormatJSON:
		data, err := renderSessionJSON(queryText, mode, sess)
		if err != nil {
			return Rendered{}, &RenderFailure{Reason: err.Error()}
		}
		return Rendered{Format: format, Text: string(data), ResultCount: 1}, nil
	default:
		return Rendered{}, &RenderFailure{Reason: "unknown format"}
	}
}

// RenderMissingSession renders the "no such session" message for a lookup
// that found nothing. id is reported back in the trailer/query field so the
// caller can tell which lookup came up empty.
func (r *Renderer) RenderMissingSession(queryText string, id string, format Format) Rendered {
	switch format {
	case FormatJSON:
		doc := responseDoc{
			Query:          queryText,
			Mode:           "",
			ResultCount:    0,
			GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
			Source:         SourceLabel,
			AttributionURL: FallbackURL,
			Results:        []sessionCell{},
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return Rendered{Format: format, Text: ""}
		}
		return Rendered{Format: format, Text: string(data)}
	default:
		return Rendered{Format: format, Text: fmt.Sprintf("No session found for id %q.\n\n%s\n", id, AttributionPhrase)}
	}
}

// ContainsAttribution reports whether rendered text carries the mandatory
// provenance marker for its format: the literal attribution phrase for
// Markdown, or a developer.apple.com URL for JSON.
func ContainsAttribution(format Format, text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	switch format {
	case FormatJSON:
		return strings.Contains(text, "developer.apple.com")
	default:
		return strings.Contains(text, AttributionPhrase) || strings.Contains(text, "developer.apple.com")
	}
}
