// Package facade is the single entry point embedders and the CLI use to
// search, look up, and list WWDC sessions. It owns the bundle lifecycle
// state machine and lazily boots the database exactly once per process,
// retrying on the next call if that boot failed.
package facade

import (
	"context"
	"strconv"
	"sync"

	"github.com/smith-tools/sosumi/internal/bundle"
	"github.com/smith-tools/sosumi/internal/logging"
	"github.com/smith-tools/sosumi/internal/query"
	"github.com/smith-tools/sosumi/internal/render"
	"github.com/smith-tools/sosumi/internal/search"
	"github.com/smith-tools/sosumi/internal/store"
)

// State tracks how far the bundle lifecycle has progressed.
type State int

const (
	StateUnresolved State = iota
	StateResolved
	StateAuthenticated
	StateOpened
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StateAuthenticated:
		return "authenticated"
	case StateOpened:
		return "opened"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures a Facade. Zero values mean "use the default
// resolution/validation rules".
type Options struct {
	BundlePath         string
	KeyOverride        string
	WorkRoot           string
	DefaultLimit       int
	RecencyWindowYears int
}

// Facade holds optional caller overrides, the renderer, and the lazily
// instantiated database handle and search engine. The zero value is not
// usable; construct with New.
type Facade struct {
	opts Options

	mu        sync.RWMutex
	state     State
	db        *store.DB
	decryptor *bundle.Decryptor
	decrypted *bundle.Decrypted
	engine    *search.Engine
	renderer  *render.Renderer
}

// New builds a Facade. No I/O happens until the first call.
func New(opts Options) *Facade {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.RecencyWindowYears < 1 {
		opts.RecencyWindowYears = 1
	}
	return &Facade{
		opts:     opts,
		state:    StateUnresolved,
		renderer: render.NewRenderer(opts.RecencyWindowYears),
	}
}

// State reports the current lifecycle state.
func (f *Facade) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// ensureOpened resolves, authenticates, and opens the database if it isn't
// already open. Concurrent callers serialize on the first attempt; a failed
// attempt does not advance state and is retried on the next call.
func (f *Facade) ensureOpened() error {
	f.mu.RLock()
	if f.state == StateOpened {
		f.mu.RUnlock()
		return nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateOpened {
		return nil
	}
	log := logging.Get(logging.CategoryFacade)

	source, err := bundle.Resolve(f.opts.BundlePath)
	if err != nil {
		return err
	}
	f.state = StateResolved

	if source.Kind == bundle.KindPlainDatabase {
		db, err := store.Open(source.Path)
		if err != nil {
			return err
		}
		f.db = db
		f.engine = search.NewEngine(db)
		f.state = StateOpened
		log.Info("opened plain database at %s", source.Path)
		return nil
	}

	key, err := bundle.ResolveKey(f.opts.KeyOverride)
	if err != nil {
		return err
	}

	if f.decryptor == nil {
		root := f.opts.WorkRoot
		if root == "" {
			root = store.DefaultWorkRoot()
		}
		if err := bundle.SweepStale(root, bundle.DefaultStaleAge); err != nil {
			log.Warn("stale working directory sweep failed: %v", err)
		}
		f.decryptor = bundle.NewDecryptor(root)
	}

	decrypted, err := f.decryptor.Open(source.Path, key)
	if err != nil {
		// Reset so the next call builds a fresh Decryptor (and so a fresh
		// sync.Once) instead of replaying this attempt's cached failure.
		f.decryptor = nil
		return err
	}
	// Authenticated only once the key has actually opened the envelope;
	// a failed Open leaves the state at Resolved for the next attempt.
	f.state = StateAuthenticated

	db, err := store.Open(decrypted.DatabasePath)
	if err != nil {
		return err
	}
	f.db = db
	f.decrypted = decrypted
	f.engine = search.NewEngine(db)
	f.state = StateOpened
	log.Info("opened decrypted bundle, %d sessions", decrypted.Metadata.TotalSessions)
	return nil
}

func checkCanceled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func mustAttribute(format render.Format, rendered render.Rendered) render.Rendered {
	if rendered.ResultCount == 0 {
		return rendered
	}
	if !render.ContainsAttribution(format, rendered.Text) {
		panic("render: output missing mandatory attribution phrase")
	}
	return rendered
}

// Search validates term/limit/offset, executes the query, and renders the
// result list in the requested mode and format.
func (f *Facade) Search(ctx context.Context, term string, mode render.Mode, format render.Format, limit, offset int) (render.Rendered, error) {
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}
	if limit <= 0 {
		limit = f.opts.DefaultLimit
	}
	if err := f.ensureOpened(); err != nil {
		return render.Rendered{}, err
	}
	if err := query.ValidateTerm(term); err != nil {
		return render.Rendered{}, err
	}
	if err := query.ValidateLimit(limit); err != nil {
		return render.Rendered{}, err
	}
	if err := query.ValidateOffset(offset); err != nil {
		return render.Rendered{}, err
	}
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}

	results, err := f.engine.Search(term, limit, offset)
	if err != nil {
		return render.Rendered{}, err
	}
	rendered, err := f.renderer.RenderList(term, mode, format, results)
	if err != nil {
		return render.Rendered{}, err
	}
	return mustAttribute(format, rendered), nil
}

// GetSession looks up a single session by id. A session that does not
// exist still renders a (valid, attributed) "not found" message rather
// than an error.
func (f *Facade) GetSession(ctx context.Context, id string, mode render.Mode, format render.Format) (render.Rendered, error) {
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}
	if err := f.ensureOpened(); err != nil {
		return render.Rendered{}, err
	}
	if err := query.ValidateID(id); err != nil {
		return render.Rendered{}, err
	}
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}

	sess, err := f.engine.GetSession(id)
	if err != nil {
		return render.Rendered{}, err
	}
	if sess == nil {
		return mustAttribute(format, f.renderer.RenderMissingSession(id, id, format)), nil
	}
	rendered, err := f.renderer.RenderSession(id, mode, format, *sess)
	if err != nil {
		return render.Rendered{}, err
	}
	return mustAttribute(format, rendered), nil
}

// ListYear returns up to limit sessions published in year (the default
// limit when limit <= 0), ordered by session number ascending.
func (f *Facade) ListYear(ctx context.Context, year int, mode render.Mode, format render.Format, limit int) (render.Rendered, error) {
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}
	if limit <= 0 {
		limit = f.opts.DefaultLimit
	}
	if err := f.ensureOpened(); err != nil {
		return render.Rendered{}, err
	}
	if err := query.ValidateYear(year); err != nil {
		return render.Rendered{}, err
	}
	if err := query.ValidateLimit(limit); err != nil {
		return render.Rendered{}, err
	}
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}

	sessions, err := f.engine.ListYear(year, limit)
	if err != nil {
		return render.Rendered{}, err
	}
	results := make([]search.Result, len(sessions))
	for i, s := range sessions {
		results[i] = search.Result{Session: s}
	}
	rendered, err := f.renderer.RenderList(strconv.Itoa(year), mode, format, results)
	if err != nil {
		return render.Rendered{}, err
	}
	return mustAttribute(format, rendered), nil
}

// Statistics renders the fixed aggregate snapshot over the whole corpus.
func (f *Facade) Statistics(ctx context.Context, format render.Format) (render.Rendered, error) {
	if err := checkCanceled(ctx); err != nil {
		return render.Rendered{}, err
	}
	if err := f.ensureOpened(); err != nil {
		return render.Rendered{}, err
	}

	stats, err := f.engine.Statistics()
	if err != nil {
		return render.Rendered{}, err
	}
	rendered := f.renderer.RenderStatistics(*stats, format)
	return mustAttribute(format, rendered), nil
}

// Close releases the database connection and the decryptor's working
// directory. Safe to call multiple times.
func (f *Facade) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateClosed {
		return nil
	}
	var err error
	if f.db != nil {
		err = f.db.Close()
	}
	if f.decryptor != nil {
		f.decryptor.Close()
	}
	f.state = StateClosed
	return err
}
