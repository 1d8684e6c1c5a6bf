package render

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/smith-tools/sosumi/internal/search"
)

func ptr[T any](v T) *T { return &v }

func fixtureSession(id string, year int, number, title string, hasTranscript bool) search.Session {
	sess := search.Session{
		ID:            id,
		Title:         title,
		Year:          year,
		SessionNumber: number,
		Description:   ptr("A talk about " + title + "."),
		DurationSecs:  ptr(1500),
		WebURL:        ptr("https://developer.apple.com/videos/play/wwdc" + strconv.Itoa(year) + "/" + number),
	}
	if hasTranscript {
		sess.Transcript = ptr("First paragraph about " + title + ".\n\nSecond paragraph with more detail.")
		sess.WordCount = ptr(42)
	}
	return sess
}

func TestRenderListMarkdownGroupsByRecency(t *testing.T) {
	currentYear := time.Now().Year()
	results := []search.Result{
		{Session: fixtureSession("a", currentYear, "101", "Recent A", true), RelevanceScore: -2.0},
		{Session: fixtureSession("b", currentYear-1, "102", "Recent B", true), RelevanceScore: -1.5},
		{Session: fixtureSession("c", currentYear, "103", "Recent C", true), RelevanceScore: -1.0},
		{Session: fixtureSession("d", 2015, "104", "Earlier A", true), RelevanceScore: -0.5},
		{Session: fixtureSession("e", 2012, "105", "Earlier B", true), RelevanceScore: -0.2},
	}

	r := NewRenderer(1)
	rendered, err := r.RenderList("swiftui", ModeCompact, FormatMarkdown, results)
	require.NoError(t, err)

	require.Contains(t, rendered.Text, "Recent Sessions")
	require.Contains(t, rendered.Text, "Earlier Sessions")
	require.Contains(t, rendered.Text, "Total results: 5")
	require.True(t, ContainsAttribution(FormatMarkdown, rendered.Text))

	recentIdx := strings.Index(rendered.Text, "Recent Sessions")
	earlierIdx := strings.Index(rendered.Text, "Earlier Sessions")
	require.Less(t, recentIdx, earlierIdx)
}

func TestRecencyWindowWidensRecentGroup(t *testing.T) {
	currentYear := time.Now().Year()
	results := []search.Result{
		{Session: fixtureSession("a", currentYear, "101", "This Year", true)},
		{Session: fixtureSession("b", currentYear-3, "102", "Three Back", true)},
	}

	narrow, err := NewRenderer(1).RenderList("q", ModeCompact, FormatMarkdown, results)
	require.NoError(t, err)
	require.Contains(t, narrow.Text, "Earlier Sessions")

	wide, err := NewRenderer(5).RenderList("q", ModeCompact, FormatMarkdown, results)
	require.NoError(t, err)
	require.NotContains(t, wide.Text, "Earlier Sessions", "a five-year window must pull both sessions into the recent group")
}

func TestRenderListMarkdownEmptyShowsNoResultsMessage(t *testing.T) {
	r := NewRenderer(1)
	rendered, err := r.RenderList("zzxyq_no_such_token", ModeUser, FormatMarkdown, nil)
	require.NoError(t, err)
	require.Equal(t, "No results found for \"zzxyq_no_such_token\"\n\nTry different keywords or browse sessions by year.\n", rendered.Text)
	require.Zero(t, rendered.ResultCount)
}

func TestRenderSessionJSONShape(t *testing.T) {
	sess := fixtureSession("wwdc2024-10102", 2024, "10102", "What's new in SwiftUI", true)
	r := NewRenderer(1)
	rendered, err := r.RenderSession("wwdc2024-10102", ModeAgent, FormatJSON, sess)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rendered.Text), &doc))

	require.Equal(t, "wwdc2024-10102", doc["query"])
	require.Equal(t, "agent", doc["mode"])
	results, ok := doc["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)

	cell := results[0].(map[string]interface{})
	require.Equal(t, "wwdc2024-10102", cell["id"])
	require.Equal(t, "What's new in SwiftUI", cell["title"])
	require.Equal(t, float64(2024), cell["year"])
	require.NotEmpty(t, cell["transcript"])
	require.True(t, ContainsAttribution(FormatJSON, rendered.Text))
}

func TestCompactModeOmitsHeavyJSONFields(t *testing.T) {
	sess := fixtureSession("wwdc2024-10102", 2024, "10102", "What's new in SwiftUI", true)
	r := NewRenderer(1)
	rendered, err := r.RenderSession("x", ModeCompact, FormatJSON, sess)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rendered.Text), &doc))
	cell := doc["results"].([]interface{})[0].(map[string]interface{})

	_, hasTranscript := cell["transcript"]
	require.False(t, hasTranscript, "compact mode must not include the full transcript")
	_, hasScore := cell["relevanceScore"]
	require.False(t, hasScore, "compact mode must not include relevance score")
}

func TestMissingSessionRenderingCarriesAttribution(t *testing.T) {
	r := NewRenderer(1)
	rendered := r.RenderMissingSession("wwdc2099-99999", "wwdc2099-99999", FormatMarkdown)
	require.True(t, ContainsAttribution(FormatMarkdown, rendered.Text))
}

func TestListYearOrderingPreservedInRendering(t *testing.T) {
	currentYear := time.Now().Year()
	results := []search.Result{
		{Session: fixtureSession("a", currentYear, "10102", "Session A", false)},
		{Session: fixtureSession("b", currentYear, "10103", "Session B", false)},
	}
	r := NewRenderer(1)
	rendered, err := r.RenderList("2024", ModeCompact, FormatMarkdown, results)
	require.NoError(t, err)

	idxA := strings.Index(rendered.Text, "Session A")
	idxB := strings.Index(rendered.Text, "Session B")
	require.Less(t, idxA, idxB)
}

func TestInjectionShapedQueryTextIsRenderedLiterallyNotExecuted(t *testing.T) {
	r := NewRenderer(1)
	malicious := `foo' OR 1=1 --`
	rendered, err := r.RenderList(malicious, ModeCompact, FormatMarkdown, nil)
	require.NoError(t, err)
	require.Contains(t, rendered.Text, malicious)
}

func TestCompactAgentTruncatesDescriptionAndTags(t *testing.T) {
	longDesc := strings.Repeat("word ", 100)
	sess := fixtureSession("id", 2024, "10102", "SwiftUI Combine RealityKit ARKit", true)
	sess.Description = ptr(longDesc)

	r := NewRenderer(1)
	rendered, err := r.RenderSession("q", ModeCompactAgent, FormatMarkdown, sess)
	require.NoError(t, err)
	require.LessOrEqual(t, utf8.RuneCountInString(truncate(longDesc, 300)), 301)
	require.Contains(t, rendered.Text, "   "+truncate(longDesc, 300)+"\n")
	require.Contains(t, rendered.Text, "Tags: SwiftUI, Combine, RealityKit\n")
	require.Contains(t, rendered.Text, "relevance")
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "duration unknown", FormatDuration(nil))
	require.Equal(t, "0:05", FormatDuration(ptr(5)))
	require.Equal(t, "2:03", FormatDuration(ptr(123)))
	require.Equal(t, "1:00:00", FormatDuration(ptr(3600)))
}

func TestExtractTopicsFallsBackToTitleWords(t *testing.T) {
	tags := ExtractTopics("Building Great Widgets", "nothing relevant here")
	require.Equal(t, []string{"Building", "Great"}, tags)
}

func TestExtractTopicsMatchesKnownKeywords(t *testing.T) {
	tags := ExtractTopics("What's new in SwiftUI and Combine", "")
	require.Contains(t, tags, "SwiftUI")
	require.Contains(t, tags, "Combine")
}

func TestParseModeAndFormatRejectUnknown(t *testing.T) {
	_, err := ParseMode("bogus")
	require.Error(t, err)
	_, err = ParseFormat("xml")
	require.Error(t, err)

	m, err := ParseMode("compact-agent")
	require.NoError(t, err)
	require.Equal(t, ModeCompactAgent, m)
}
