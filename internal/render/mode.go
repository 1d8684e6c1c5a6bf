// Package render turns search results and sessions into user-facing text.
// Markdown cells are small per-mode pure functions (markdown.go); JSON cells
// are built by one per-mode switch in buildCell (json.go).
package render

import "fmt"

// Mode controls information density.
type Mode string

const (
	ModeCompact      Mode = "compact"
	ModeUser         Mode = "user"
	ModeAgent        Mode = "agent"
	ModeCompactAgent Mode = "compact-agent"
)

// Format controls syntax.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseMode validates a caller-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCompact, ModeUser, ModeAgent, ModeCompactAgent:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// ParseFormat validates a caller-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// AttributionPhrase is appended to every non-empty rendering so content
// always carries its source back to Apple's own publication.
const AttributionPhrase = "Source: WWDC Sessions Archive — content attributed to Apple Inc. / developer.apple.com"

// SourceLabel is the literal trailer source string shown in every rendering.
const SourceLabel = "WWDC Sessions Archive"

// FallbackURL is used when a session has no web_url of its own.
const FallbackURL = "https://developer.apple.com/videos/"
