package listing

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/options"
)

// Component bundles the listing handler, its configuration, and routing
// helpers.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return NewOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the net/http handler.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}

// LoaderOptions points a select loader at the component mounted under
// basePath on origin (scheme and host, e.g. "http://localhost:8080"), using
// the component's search parameter and default page size.
func (c *Component) LoaderOptions(origin, basePath string) []options.LoaderOption {
	opts := c.Options()
	endpoint := strings.TrimRight(origin, "/") + mountPath(basePath, opts.RoutePath)
	return []options.LoaderOption{
		options.WithEndpoint(endpoint, opts.SearchParam),
		options.WithLimit(opts.DefaultLimit),
	}
}
