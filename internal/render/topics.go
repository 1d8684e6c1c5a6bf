package render

import (
	"regexp"
	"strings"
)

// topicRule maps a compiled pattern to its canonical tag string. Order
// matters: rules are tried top to bottom and every matching rule adds its
// tag once, in table order, keeping extraction deterministic and
// order-stable across runs.
type topicRule struct {
	pattern *regexp.Regexp
	tag     string
}

var topicRules = []topicRule{
	{regexp.MustCompile(`(?i)swiftui`), "SwiftUI"},
	{regexp.MustCompile(`(?i)combine`), "Combine"},
	{regexp.MustCompile(`(?i)realitykit`), "RealityKit"},
	{regexp.MustCompile(`(?i)arkit`), "ARKit"},
	{regexp.MustCompile(`(?i)shareplay`), "SharePlay"},
	{regexp.MustCompile(`(?i)core data`), "Core Data"},
	{regexp.MustCompile(`(?i)concurrency`), "Concurrency"},
	{regexp.MustCompile(`(?i)visionos`), "visionOS"},
}

// ExtractTopics returns the ordered, deterministic set of topic tags found
// in title and description. If no keyword rule matches, it falls back to the
// first two title words of length >= 4 characters.
func ExtractTopics(title, description string) []string {
	haystack := title + " " + description

	var tags []string
	seen := make(map[string]bool)
	for _, rule := range topicRules {
		if rule.pattern.MatchString(haystack) && !seen[rule.tag] {
			tags = append(tags, rule.tag)
			seen[rule.tag] = true
		}
	}

	if len(tags) > 0 {
		return tags
	}

	words := strings.Fields(title)
	var fallback []string
	for _, w := range words {
		cleaned := strings.Trim(w, ".,:;!?\"'()")
		if len(cleaned) >= 4 {
			fallback = append(fallback, cleaned)
		}
		if len(fallback) == 2 {
			break
		}
	}
	return fallback
}
