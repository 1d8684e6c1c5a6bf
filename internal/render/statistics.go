package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smith-tools/sosumi/internal/search"
)

type statisticsDoc struct {
	GeneratedAt            string  `json:"generatedAt"`
	Source                 string  `json:"source"`
	AttributionURL         string  `json:"attributionUrl"`
	TotalSessions          int     `json:"totalSessions"`
	SessionsWithTranscript int     `json:"sessionsWithTranscript"`
	TotalWordCount         int64   `json:"totalWordCount"`
	AverageDurationSecs    float64 `json:"averageDurationSecs"`
	MinYear                int     `json:"minYear"`
	MaxYear                int     `json:"maxYear"`
	DistinctSessionTypes   int     `json:"distinctSessionTypes"`
}

// RenderStatistics formats a corpus-wide aggregate snapshot.
func (r *Renderer) RenderStatistics(stats search.Statistics, format Format) Rendered {
	switch format {
	case FormatJSON:
		doc := statisticsDoc{
			GeneratedAt:            time.Now().UTC().Format(time.RFC3339),
			Source:                 SourceLabel,
			AttributionURL:         FallbackURL,
			TotalSessions:          stats.TotalSessions,
			SessionsWithTranscript: stats.SessionsWithTranscript,
			TotalWordCount:         stats.TotalWordCount,
			AverageDurationSecs:    stats.AverageDurationSecs,
			MinYear:                stats.MinYear,
			MaxYear:                stats.MaxYear,
			DistinctSessionTypes:   stats.DistinctSessionTypes,
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return Rendered{Format: format, Text: ""}
		}
		return Rendered{Format: format, Text: string(data), ResultCount: 1}
	default:
		text := fmt.Sprintf(
			"### WWDC Sessions Archive — Statistics\n\n"+
				"- Total sessions: %d\n"+
				"- Sessions with transcript: %d\n"+
				"- Total word count: %d\n"+
				"- Average duration: %s\n"+
				"- Year range: %d–%d\n"+
				"- Distinct session types: %d\n\n%s\n",
			stats.TotalSessions, stats.SessionsWithTranscript, stats.TotalWordCount,
			FormatDuration(intPtr(int(stats.AverageDurationSecs))), stats.MinYear, stats.MaxYear,
			stats.DistinctSessionTypes, AttributionPhrase,
		)
		return Rendered{Format: format, Text: text, ResultCount: 1}
	}
}

func intPtr(v int) *int { return &v }
