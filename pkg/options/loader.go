package options

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// State is the status of the most recent load.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Result lets callers tell an empty listing apart from a failed fetch.
type Result struct {
	State   State
	Options []Option
	Err     error
}

// Empty reports a successful load with no options.
func (r Result) Empty() bool {
	return r.State == StateSuccess && len(r.Options) == 0
}

// Loader is the runtime model of one open select control. A static list, when
// given, takes precedence and disables remote fetching entirely. Remote pages
// are accumulated: the option list only grows until the search text changes.
type Loader struct {
	mu sync.Mutex

	fetcher Fetcher
	static  []Option
	base    Query
	locale  locale.Locale
	logger  logger.Logger

	search     string
	page       int
	items      []Option
	pagination Pagination
	state      State
	err        error

	// request that last failed, replayed by Load
	retryPage   int
	retryAppend bool

	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStatic supplies a fixed option list. A non-nil list disables remote
// fetching.
func WithStatic(opts []Option) LoaderOption {
	return func(l *Loader) {
		if opts != nil {
			l.static = append([]Option{}, opts...)
		}
	}
}

// WithFetcher sets the remote fetcher.
func WithFetcher(f Fetcher) LoaderOption {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithEndpoint sets the listing URL and the query parameter carrying the
// search text.
func WithEndpoint(baseURL, searchField string) LoaderOption {
	return func(l *Loader) {
		l.base.BaseURL = baseURL
		l.base.SearchField = searchField
	}
}

// WithExtraQuery appends a raw querystring fragment to every request.
func WithExtraQuery(extra string) LoaderOption {
	return func(l *Loader) {
		l.base.Extra = extra
	}
}

// WithLimit sets the page size requested from the endpoint.
func WithLimit(limit int) LoaderOption {
	return func(l *Loader) {
		if limit > 0 {
			l.base.Limit = limit
		}
	}
}

// WithLoaderLocale sets the locale for labels and the sentinel.
func WithLoaderLocale(loc locale.Locale) LoaderOption {
	return func(l *Loader) {
		if loc.Valid() {
			l.locale = loc
		}
	}
}

// WithLoaderLogger attaches a logger.
func WithLoaderLogger(lg logger.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger.OrNop(lg)
	}
}

// NewLoader constructs a loader. Without a static list the loader uses
// NewHTTPFetcher when an endpoint is configured but no fetcher was supplied.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{
		locale: locale.Default,
		logger: logger.Nop(),
		page:   1,
		state:  StateIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.fetcher == nil && l.static == nil && strings.TrimSpace(l.base.BaseURL) != "" {
		l.fetcher = NewHTTPFetcher(WithLocale(l.locale), WithLogger(l.logger))
	}
	if l.static != nil {
		l.state = StateSuccess
	}
	return l
}

// Remote reports whether options come from a fetcher.
func (l *Loader) Remote() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remoteLocked()
}

func (l *Loader) remoteLocked() bool {
	return l.static == nil && l.fetcher != nil
}

// Search returns the current search text.
func (l *Loader) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}

// Page returns the last requested page number.
func (l *Loader) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Pagination returns the metadata of the last successful page.
func (l *Loader) Pagination() Pagination {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pagination
}

// Options returns the entries to display. Remote lists carry the "See more"
// sentinel while the endpoint reports more pages. Static lists are filtered
// locally by the search text.
func (l *Loader) Options() []Option {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.optionsLocked()
}

func (l *Loader) optionsLocked() []Option {
	if l.static != nil {
		return filterStatic(l.static, l.search)
	}
	out := make([]Option, 0, len(l.items)+1)
	out = append(out, l.items...)
	if l.pagination.HasNext {
		out = append(out, SeeMore(l.locale))
	}
	return out
}

// Result reports the tri-state outcome of the latest load.
func (l *Loader) Result() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resultLocked()
}

func (l *Loader) resultLocked() Result {
	return Result{State: l.state, Options: l.optionsLocked(), Err: l.err}
}

// Load fetches the current page when nothing has been loaded yet and returns
// the current result otherwise. After a failure it repeats the failed request,
// so a failed "See more" is appended onto the pages already loaded.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Result{}, ErrClosed
	}
	if !l.remoteLocked() || l.state == StateSuccess {
		res := l.resultLocked()
		l.mu.Unlock()
		return res, nil
	}
	page, appendItems := l.page, false
	if l.state == StateError && l.retryPage > 0 {
		page, appendItems = l.retryPage, l.retryAppend
	}
	l.mu.Unlock()
	return l.fetch(ctx, page, appendItems)
}

// SetSearch changes the search text, resets the page to 1, and clears any
// accumulated options before fetching.
func (l *Loader) SetSearch(ctx context.Context, text string) (Result, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Result{}, ErrClosed
	}
	l.search = text
	l.page = 1
	if !l.remoteLocked() {
		res := l.resultLocked()
		l.mu.Unlock()
		return res, nil
	}
	l.items = nil
	l.pagination = Pagination{}
	l.retryPage, l.retryAppend = 0, false
	l.mu.Unlock()
	return l.fetch(ctx, 1, false)
}

// SeeMore requests the next page and appends it. It is a no-op when the
// endpoint reported no further pages.
func (l *Loader) SeeMore(ctx context.Context) (Result, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Result{}, ErrClosed
	}
	if !l.remoteLocked() || !l.pagination.HasNext {
		res := l.resultLocked()
		l.mu.Unlock()
		return res, nil
	}
	next := l.page + 1
	l.mu.Unlock()
	return l.fetch(ctx, next, true)
}

// Select resolves a user pick. Picking the sentinel loads the next page and
// reports selected=false; any other option is returned as the selection.
func (l *Loader) Select(ctx context.Context, opt Option) (Option, bool, error) {
	if !opt.IsSeeMore() {
		return opt, true, nil
	}
	_, err := l.SeeMore(ctx)
	return Option{}, false, err
}

// Close cancels any in-flight fetch. Responses that arrive afterwards are
// dropped.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) fetch(parent context.Context, page int, appendItems bool) (Result, error) {
	if parent == nil {
		parent = context.Background()
	}

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	l.generation++
	gen := l.generation
	l.cancel = cancel
	l.state = StateLoading
	l.err = nil
	query := l.base
	query.Search = l.search
	query.Page = page
	query.Locale = l.locale
	fetcher := l.fetcher
	l.mu.Unlock()

	result, err := fetcher.Fetch(ctx, query)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.generation {
		l.logger.Debugw("stale option page discarded", "page", page, "search", query.Search)
		return Result{}, ErrStale
	}
	l.cancel = nil

	if err != nil {
		l.state = StateError
		l.err = err
		l.retryPage, l.retryAppend = page, appendItems
		l.logger.Warnw("option page failed", "page", page, "error", err)
		return l.resultLocked(), err
	}

	if appendItems {
		l.items = append(l.items, result.Options...)
	} else {
		l.items = append([]Option{}, result.Options...)
	}
	l.page = page
	l.pagination = result.Pagination
	l.state = StateSuccess
	l.retryPage, l.retryAppend = 0, false
	return l.resultLocked(), nil
}

func filterStatic(opts []Option, search string) []Option {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]Option, 0, len(opts))
	for _, opt := range opts {
		if needle == "" || strings.Contains(strings.ToLower(opt.Label), needle) {
			out = append(out, opt)
		}
	}
	return out
}

// IsStale reports whether err marks a discarded response.
func IsStale(err error) bool {
	return errors.Is(err, ErrStale)
}
