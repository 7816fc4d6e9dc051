package options

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// Fetcher resolves one page of options for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Page, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, q Query) (Page, error)

// Fetch implements Fetcher.
func (fn FetcherFunc) Fetch(ctx context.Context, q Query) (Page, error) {
	return fn(ctx, q)
}

// LabelFields names the bilingual row fields used for option labels.
type LabelFields struct {
	En string
	Ar string
}

// For returns the field name for the locale, with the other half as the
// fallback.
func (f LabelFields) For(l locale.Locale) (primary, fallback string) {
	if l == locale.Arabic {
		return f.Ar, f.En
	}
	return f.En, f.Ar
}

// HTTPFetcher issues GET requests against listing endpoints and normalises
// the paginated envelope.
type HTTPFetcher struct {
	client         *http.Client
	locale         locale.Locale
	labels         LabelFields
	valueField     string
	resultsPath    string
	paginationPath string
	logger         logger.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLocale sets the locale used when a Query does not carry one.
func WithLocale(l locale.Locale) FetcherOption {
	return func(f *HTTPFetcher) {
		if l.Valid() {
			f.locale = l
		}
	}
}

// WithLabelFields overrides the bilingual label field names.
func WithLabelFields(en, ar string) FetcherOption {
	return func(f *HTTPFetcher) {
		if strings.TrimSpace(en) != "" {
			f.labels.En = en
		}
		if strings.TrimSpace(ar) != "" {
			f.labels.Ar = ar
		}
	}
}

// WithValueField overrides the row field used as the option value.
func WithValueField(field string) FetcherOption {
	return func(f *HTTPFetcher) {
		if strings.TrimSpace(field) != "" {
			f.valueField = field
		}
	}
}

// WithResultsPath sets the dotted path to the rows array. An empty path means
// the payload itself is the array.
func WithResultsPath(path string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.resultsPath = path
	}
}

// WithPaginationPath sets the dotted path to the pagination object.
func WithPaginationPath(path string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.paginationPath = path
	}
}

// WithLogger attaches a logger.
func WithLogger(l logger.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		f.logger = logger.OrNop(l)
	}
}

// NewHTTPFetcher constructs a fetcher with the listing defaults: labels from
// nameEn/nameAr, values from id, rows under data and metadata under
// pagination.
func NewHTTPFetcher(options ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:         http.DefaultClient,
		locale:         locale.Default,
		labels:         LabelFields{En: "nameEn", Ar: "nameAr"},
		valueField:     "id",
		resultsPath:    "data",
		paginationPath: "pagination",
		logger:         logger.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Fetch performs the request. Non-2xx responses yield a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, q Query) (Page, error) {
	if strings.TrimSpace(q.BaseURL) == "" {
		return Page{}, ErrNoFetcher
	}
	if !q.Locale.Valid() {
		q.Locale = f.locale
	}
	reqURL, err := q.URL()
	if err != nil {
		return Page{}, fmt.Errorf("options: parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("options: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", q.Locale.String())

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("options: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warnw("option fetch failed", "url", reqURL, "status", resp.StatusCode)
		return Page{}, &StatusError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return Page{}, fmt.Errorf("options: decode: %w", err)
	}

	page := Page{Options: f.mapRows(extractResults(payload, f.resultsPath), q.Locale)}
	page.Pagination = f.pagination(payload, q, len(page.Options))
	f.logger.Debugw("options fetched", "url", reqURL, "count", len(page.Options), "has_next", page.Pagination.HasNext)
	return page, nil
}

func (f *HTTPFetcher) mapRows(rows []any, l locale.Locale) []Option {
	primary, fallback := f.labels.For(l)
	out := make([]Option, 0, len(rows))
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}
		value := pickValue(obj, f.valueField)
		if value == "" {
			continue
		}
		label := pickValue(obj, primary)
		if label == "" {
			label = pickValue(obj, fallback)
		}
		if label == "" {
			label = value
		}
		out = append(out, Option{Label: label, Value: value})
	}
	return out
}

func (f *HTTPFetcher) pagination(payload any, q Query, count int) Pagination {
	fallback := Pagination{Page: max(q.Page, 1), Limit: q.Limit, Total: count}
	if f.paginationPath == "" {
		return fallback
	}
	node := lookup(payload, f.paginationPath)
	if node == nil {
		return fallback
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return fallback
	}
	var p Pagination
	if err := json.Unmarshal(raw, &p); err != nil {
		return fallback
	}
	if p.Page < 1 {
		p.Page = fallback.Page
	}
	return p
}

func lookup(payload any, path string) any {
	cur := payload
	if path == "" {
		return cur
	}
	for _, segment := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = node[segment]
	}
	return cur
}

func extractResults(payload any, path string) []any {
	switch v := lookup(payload, path).(type) {
	case []any:
		return v
	default:
		return nil
	}
}

func pickValue(m map[string]any, path string) string {
	if path == "" {
		return ""
	}
	value := lookup(m, path)
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
