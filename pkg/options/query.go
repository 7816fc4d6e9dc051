package options

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// Query describes one page request against a listing endpoint.
type Query struct {
	BaseURL     string
	SearchField string
	Search      string
	Page        int
	Limit       int
	// Extra is a raw querystring fragment appended verbatim, e.g.
	// "countryId=5" to scope results.
	Extra  string
	Locale locale.Locale
}

// URL renders {base}?{searchField}={text}&page={n}[&limit=..][&{extra}].
// Parameters already present on the base URL are kept in front.
func (q Query) URL() (string, error) {
	base, err := url.Parse(strings.TrimSpace(q.BaseURL))
	if err != nil {
		return "", err
	}
	field := q.SearchField
	if field == "" {
		field = "search"
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	parts := make([]string, 0, 5)
	if base.RawQuery != "" {
		parts = append(parts, base.RawQuery)
	}
	parts = append(parts,
		url.QueryEscape(field)+"="+url.QueryEscape(q.Search),
		"page="+strconv.Itoa(page),
	)
	if q.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(q.Limit))
	}
	if extra := strings.TrimLeft(strings.TrimSpace(q.Extra), "&?"); extra != "" {
		parts = append(parts, extra)
	}
	base.RawQuery = strings.Join(parts, "&")
	return base.String(), nil
}

func (q Query) cacheKey() string {
	u, err := q.URL()
	if err != nil {
		u = q.BaseURL
	}
	return q.Locale.String() + " " + u
}
