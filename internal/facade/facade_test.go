package facade

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smith-tools/sosumi/internal/bundle"
	"github.com/smith-tools/sosumi/internal/query"
	"github.com/smith-tools/sosumi/internal/render"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newFixtureBundlePath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE sessions (
			id TEXT PRIMARY KEY, title TEXT, year INTEGER, session_number TEXT,
			type TEXT, duration INTEGER, description TEXT, web_url TEXT
		)`,
		`CREATE TABLE transcripts (
			session_id TEXT, language TEXT, content TEXT, word_count INTEGER,
			url TEXT, download_timestamp TEXT
		)`,
		`CREATE VIRTUAL TABLE transcripts_fts USING fts5(
			session_id UNINDEXED, title, content, year UNINDEXED,
			session_type UNINDEXED, session_number UNINDEXED, duration UNINDEXED
		)`,
		`INSERT INTO sessions VALUES ('wwdc2024-10102', 'What''s new in SwiftUI', 2024, '10102', 'session', 1500, 'A tour of new SwiftUI APIs.', 'https://developer.apple.com/videos/play/wwdc2024/10102')`,
		`INSERT INTO transcripts (session_id, language, content, word_count) VALUES ('wwdc2024-10102', 'en', 'SwiftUI brings new layout primitives this year.', 9)`,
		`INSERT INTO transcripts_fts (session_id, title, content, year, session_type, session_number, duration) VALUES ('wwdc2024-10102', 'What''s new in SwiftUI', 'SwiftUI brings new layout primitives this year.', 2024, 'session', '10102', 1500)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func newFixtureFacade(t *testing.T) *Facade {
	t.Helper()
	path := newFixtureBundlePath(t)
	f := New(Options{BundlePath: path, WorkRoot: t.TempDir()})
	t.Cleanup(func() { require.NoError(t, f.Close()) })
	return f
}

func TestSearchOpensDatabaseAndRendersAttribution(t *testing.T) {
	f := newFixtureFacade(t)

	rendered, err := f.Search(context.Background(), "SwiftUI", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.NoError(t, err)
	require.True(t, render.ContainsAttribution(render.FormatMarkdown, rendered.Text))
	require.Equal(t, StateOpened, f.State())
}

func TestGetSessionFoundAndMissing(t *testing.T) {
	f := newFixtureFacade(t)
	ctx := context.Background()

	found, err := f.GetSession(ctx, "wwdc2024-10102", render.ModeUser, render.FormatMarkdown)
	require.NoError(t, err)
	require.Contains(t, found.Text, "SwiftUI")

	missing, err := f.GetSession(ctx, "wwdc2099-99999", render.ModeUser, render.FormatMarkdown)
	require.NoError(t, err)
	require.True(t, render.ContainsAttribution(render.FormatMarkdown, missing.Text))
}

func TestListYearAndStatistics(t *testing.T) {
	f := newFixtureFacade(t)
	ctx := context.Background()

	yearRendered, err := f.ListYear(ctx, 2024, render.ModeCompact, render.FormatMarkdown, 50)
	require.NoError(t, err)
	require.Contains(t, yearRendered.Text, "SwiftUI")

	statsRendered, err := f.Statistics(ctx, render.FormatJSON)
	require.NoError(t, err)
	require.Contains(t, statsRendered.Text, `"totalSessions": 1`)
}

func TestSearchRejectsInvalidTermOnceDatabaseIsOpen(t *testing.T) {
	f := newFixtureFacade(t)

	_, err := f.Search(context.Background(), "", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.Error(t, err)
	var valErr *query.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, 2, ExitCode(err))
	require.Equal(t, StateOpened, f.State())
}

func TestDecryptionFailureLeavesStateResolved(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "wwdc_bundle.encrypted")
	// A syntactically valid envelope with no iv/tag fields (they decode to
	// zero bytes), so key resolution succeeds but the decryptor's Open fails.
	require.NoError(t, os.WriteFile(envPath, []byte("{}"), 0644))

	key := make([]byte, 32)
	f := New(Options{
		BundlePath:  envPath,
		KeyOverride: hex.EncodeToString(key),
		WorkRoot:    t.TempDir(),
	})
	t.Cleanup(func() { require.NoError(t, f.Close()) })

	_, err := f.Search(context.Background(), "swiftui", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.Error(t, err)

	var decErr *bundle.DecryptionFailedError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, 3, ExitCode(err))
	require.Equal(t, StateResolved, f.State(), "a failed decryption must not advance past Resolved")
}

func TestMissingBundleYieldsExitCodeFive(t *testing.T) {
	f := New(Options{BundlePath: filepath.Join(t.TempDir(), "does-not-exist.encrypted")})
	t.Cleanup(func() { require.NoError(t, f.Close()) })

	_, err := f.Search(context.Background(), "swiftui", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.Error(t, err)
	require.Equal(t, 5, ExitCode(err))
}

func TestRepeatedCallsReuseTheSameOpenDatabase(t *testing.T) {
	f := newFixtureFacade(t)
	ctx := context.Background()

	_, err := f.Search(ctx, "SwiftUI", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.NoError(t, err)
	db1 := f.db

	_, err = f.Search(ctx, "layout", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.NoError(t, err)
	db2 := f.db

	require.Same(t, db1, db2, "the database handle must not be reopened across calls")
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newFixtureFacade(t)
	_, err := f.Search(context.Background(), "SwiftUI", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	require.Equal(t, StateClosed, f.State())
}

func TestCanceledContextIsHonoredBeforeQuerying(t *testing.T) {
	f := newFixtureFacade(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Search(ctx, "SwiftUI", render.ModeCompact, render.FormatMarkdown, 10, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExitCodeMapping(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
}

type jsonResultDoc struct {
	Results []struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Year          int    `json:"year"`
		SessionNumber string `json:"sessionNumber"`
	} `json:"results"`
}

func TestAgentJSONRoundTripsThroughGetSession(t *testing.T) {
	f := newFixtureFacade(t)
	ctx := context.Background()

	rendered, err := f.Search(ctx, "SwiftUI", render.ModeAgent, render.FormatJSON, 10, 0)
	require.NoError(t, err)

	var doc jsonResultDoc
	require.NoError(t, json.Unmarshal([]byte(rendered.Text), &doc))
	require.NotEmpty(t, doc.Results)

	for _, res := range doc.Results {
		refetched, err := f.GetSession(ctx, res.ID, render.ModeAgent, render.FormatJSON)
		require.NoError(t, err)

		var single jsonResultDoc
		require.NoError(t, json.Unmarshal([]byte(refetched.Text), &single))
		require.Len(t, single.Results, 1)
		require.Equal(t, res.Title, single.Results[0].Title)
		require.Equal(t, res.Year, single.Results[0].Year)
		require.Equal(t, res.SessionNumber, single.Results[0].SessionNumber)
	}
}

func TestMarkdownSearchIsDeterministic(t *testing.T) {
	f := newFixtureFacade(t)
	ctx := context.Background()

	first, err := f.Search(ctx, "SwiftUI", render.ModeUser, render.FormatMarkdown, 10, 0)
	require.NoError(t, err)
	second, err := f.Search(ctx, "SwiftUI", render.ModeUser, render.FormatMarkdown, 10, 0)
	require.NoError(t, err)
	require.Equal(t, first.Text, second.Text)
}

func TestInjectionShapedSearchNeverFailsExecution(t *testing.T) {
	f := newFixtureFacade(t)
	ctx := context.Background()

	for _, term := range []string{`' OR 1=1 --`, `"; DROP TABLE sessions; --`, `bar)`} {
		rendered, err := f.Search(ctx, term, render.ModeUser, render.FormatMarkdown, 10, 0)
		require.NoError(t, err, "injection-shaped term %q must not reach SQLite unescaped", term)
		require.Contains(t, rendered.Text, "No results found")
	}
}
