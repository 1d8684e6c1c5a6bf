package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smith-tools/sosumi/internal/search"
)

func canonicalID(sess search.Session) string {
	return fmt.Sprintf("wwdc%d-%s", sess.Year, sess.SessionNumber)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "…"
}

func firstSentences(text string, n int) string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' })
	if len(fields) == 0 {
		return ""
	}
	if len(fields) > n {
		fields = fields[:n]
	}
	out := strings.TrimSpace(strings.Join(fields, "."))
	if out != "" {
		out += "."
	}
	return out
}

// userSnippet picks the user-mode summary: up to 200 characters of
// description, falling back to the transcript's first two sentences.
func userSnippet(sess search.Session) string {
	if sess.Description != nil && strings.TrimSpace(*sess.Description) != "" {
		return truncate(*sess.Description, 200)
	}
	if sess.Transcript != nil {
		return truncate(firstSentences(*sess.Transcript, 2), 200)
	}
	return ""
}

func webURLOrFallback(sess search.Session) string {
	if sess.WebURL != nil && strings.TrimSpace(*sess.WebURL) != "" {
		return *sess.WebURL
	}
	return FallbackURL
}

func paragraphs(transcript *string) []string {
	if transcript == nil {
		return nil
	}
	raw := strings.Split(*transcript, "\n\n")
	var out []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 && strings.TrimSpace(*transcript) != "" {
		out = []string{strings.TrimSpace(*transcript)}
	}
	return out
}

// relevancePercent maps a BM25 score (lower = more relevant, typically
// negative) onto a 0-100 scale using a logistic squash so very relevant
// hits approach 100 without the axis ever clipping hard.
func relevancePercent(score float64) int {
	pct := 100 / (1 + math.Exp(score/2))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct))
}

func topicTagsFor(sess search.Session) []string {
	desc := ""
	if sess.Description != nil {
		desc = *sess.Description
	}
	return ExtractTopics(sess.Title, desc)
}

func markdownSessionLine(index int, sess search.Session) string {
	tags := topicTagsFor(sess)
	tagStr := ""
	if len(tags) > 0 {
		tagStr = " • " + strings.Join(tags, " • ")
	}
	return fmt.Sprintf("%d. **%s** (%s) — %s%s", index, sess.Title, canonicalID(sess), FormatDuration(sess.DurationSecs), tagStr)
}

func markdownUserBlock(index int, sess search.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. **%s** (%d, %s)\n", index, sess.Title, sess.Year, FormatDuration(sess.DurationSecs))
	if snippet := userSnippet(sess); snippet != "" {
		fmt.Fprintf(&b, "   %s\n", snippet)
	}
	fmt.Fprintf(&b, "   [Watch on developer.apple.com](%s)\n", webURLOrFallback(sess))
	return b.String()
}

func markdownAgentBlock(index int, res search.Result) string {
	sess := res.Session
	var b strings.Builder
	fmt.Fprintf(&b, "## %d. %s\n\n", index, sess.Title)
	fmt.Fprintf(&b, "- id: `%s`\n", canonicalID(sess))
	fmt.Fprintf(&b, "- relevance score: %.4f\n", res.RelevanceScore)
	if sess.WordCount != nil {
		fmt.Fprintf(&b, "- word count: %d\n", *sess.WordCount)
	}
	fmt.Fprintf(&b, "- duration: %s\n\n", FormatDuration(sess.DurationSecs))

	if ps := paragraphs(sess.Transcript); len(ps) > 0 {
		for _, p := range ps {
			fmt.Fprintf(&b, "%s\n\n", p)
		}
	} else {
		b.WriteString("_No transcript available for this session._\n\n")
	}
	fmt.Fprintf(&b, "Source: [%s](%s)\n", sess.Title, webURLOrFallback(sess))
	return b.String()
}

func markdownCompactAgentBlock(index int, res search.Result) string {
	sess := res.Session
	var b strings.Builder
	fmt.Fprintf(&b, "%d. **%s** — relevance %d%%\n", index, sess.Title, relevancePercent(res.RelevanceScore))

	desc := ""
	if sess.Description != nil {
		desc = truncate(*sess.Description, 300)
	}
	if desc != "" {
		fmt.Fprintf(&b, "   %s\n", desc)
	}

	tags := topicTagsFor(sess)
	if len(tags) > 3 {
		tags = tags[:3]
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, "   Tags: %s\n", strings.Join(tags, ", "))
	}

	ps := paragraphs(sess.Transcript)
	if len(ps) > 2 {
		ps = ps[:2]
	}
	for _, p := range ps {
		fmt.Fprintf(&b, "   > %s\n", truncate(p, 400))
	}
	fmt.Fprintf(&b, "   [%s](%s)\n", canonicalID(sess), webURLOrFallback(sess))
	return b.String()
}

// groupByRecency splits results into "recent" (year >= current year minus
// the configured window) and "earlier", preserving each group's relative
// order.
func groupByRecency(results []search.Result, windowYears int) (recent, earlier []search.Result) {
	cutoff := time.Now().Year() - windowYears
	for _, r := range results {
		if r.Session.Year >= cutoff {
			recent = append(recent, r)
		} else {
			earlier = append(earlier, r)
		}
	}
	return recent, earlier
}

func markdownTrailer(query string, total int) string {
	return fmt.Sprintf("\n---\n_Query: %q · Total results: %d · Source: %s_\n\n%s\n", query, total, SourceLabel, AttributionPhrase)
}

func noResultsMarkdown(query string) string {
	return fmt.Sprintf("No results found for %q\n\nTry different keywords or browse sessions by year.\n", query)
}

// renderListMarkdown renders a full result list in the given mode.
func renderListMarkdown(queryText string, mode Mode, results []search.Result, recencyWindow int) string {
	if len(results) == 0 {
		return noResultsMarkdown(queryText)
	}

	var b strings.Builder
	recent, earlier := groupByRecency(results, recencyWindow)

	writeGroup := func(header string, group []search.Result) {
		if len(group) == 0 {
			return
		}
		fmt.Fprintf(&b, "### %s\n\n", header)
		for i, r := range group {
			idx := i + 1
			switch mode {
			case ModeCompact:
				b.WriteString(markdownSessionLine(idx, r.Session))
				b.WriteString("\n")
			case ModeUser:
				b.WriteString(markdownUserBlock(idx, r.Session))
			case ModeAgent:
				b.WriteString(markdownAgentBlock(idx, r))
			case ModeCompactAgent:
				b.WriteString(markdownCompactAgentBlock(idx, r))
			}
		}
		b.WriteString("\n")
	}

	writeGroup("Recent Sessions", recent)
	writeGroup("Earlier Sessions", earlier)

	b.WriteString(markdownTrailer(queryText, len(results)))
	return b.String()
}

// renderSessionMarkdown renders a single session lookup in the given mode.
func renderSessionMarkdown(queryText string, mode Mode, sess search.Session) string {
	res := search.Result{Session: sess, RelevanceScore: 0}
	var body string
	switch mode {
	case ModeCompact:
		body = markdownSessionLine(1, sess) + "\n"
	case ModeUser:
		body = markdownUserBlock(1, sess)
	case ModeAgent:
		body = markdownAgentBlock(1, res)
	case ModeCompactAgent:
		body = markdownCompactAgentBlock(1, res)
	}
	return body + markdownTrailer(queryText, 1)
}
