package listing

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbuilder/internal/logger"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	SearchParam  string
	PageParam    string
	LimitParam   string
	ScopeParam   string
	DefaultLimit int
	MaxLimit     int
	Guard        GuardFunc

	// Items nil means the embedded sample list.
	Items []Item

	// Registerer receives the request metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	Logger     logger.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/api/cities",
		SearchParam:  "search",
		PageParam:    "page",
		LimitParam:   "limit",
		ScopeParam:   "parentId",
		DefaultLimit: 10,
		MaxLimit:     100,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/cities"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "search"
	}
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.Items != nil {
		opts.Items = append([]Item{}, opts.Items...)
	}
	opts.Logger = logger.OrNop(opts.Logger)
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		o.SearchParam = name
	}
}

func WithPageParam(name string) OptionFn {
	return func(o *Options) {
		o.PageParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		o.LimitParam = name
	}
}

// WithScopeParam names the query parameter that restricts rows to one
// ParentID, e.g. cities of a country. An empty name disables scoping.
func WithScopeParam(name string) OptionFn {
	return func(o *Options) {
		o.ScopeParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		o.MaxLimit = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

func WithItems(items []Item) OptionFn {
	return func(o *Options) {
		if items == nil {
			o.Items = nil
			return
		}
		o.Items = append([]Item{}, items...)
	}
}

func WithRegisterer(reg prometheus.Registerer) OptionFn {
	return func(o *Options) {
		o.Registerer = reg
	}
}

func WithLogger(l logger.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = l
	}
}

func clampLimit(limit int, opts Options) int {
	if limit <= 0 {
		return opts.DefaultLimit
	}
	if limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
