package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/options"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Response is the listing envelope.
type Response struct {
	Data       []Item             `json:"data"`
	Pagination options.Pagination `json:"pagination"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	m := newMetrics(opts.Registerer)
	route := opts.RoutePath

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		code, rows := serve(w, r, opts)
		m.observe(route, code, rows, started)
		if code >= http.StatusInternalServerError {
			opts.Logger.Errorw("listing request failed", "route", route, "status", code)
			return
		}
		opts.Logger.Debugw("listing request", "route", route, "status", code, "rows", rows, "query", r.URL.RawQuery)
	})
}

func serve(w http.ResponseWriter, r *http.Request, opts Options) (int, int) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed, 0
	}

	if opts.Guard != nil {
		if err := opts.Guard(r); err != nil {
			return writeGuardError(w, err), 0
		}
	}

	items := opts.Items
	if items == nil {
		loaded, err := DefaultItems()
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return http.StatusInternalServerError, 0
		}
		items = loaded
	}

	query := r.URL.Query()
	var scope string
	if opts.ScopeParam != "" {
		scope = query.Get(opts.ScopeParam)
	}
	matches := Search(items, query.Get(opts.SearchParam), scope)
	page, meta := Paginate(matches, parseInt(query.Get(opts.PageParam)), clampLimit(parseInt(query.Get(opts.LimitParam)), opts))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return http.StatusOK, len(page)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(Response{Data: page, Pagination: meta})
	return http.StatusOK, len(page)
}

func writeGuardError(w http.ResponseWriter, err error) int {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
	return code
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
