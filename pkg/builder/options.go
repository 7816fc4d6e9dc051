package builder

import (
	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// Option configures a Composer.
type Option func(*Composer)

// WithLocale sets the locale used for default step names and display labels.
func WithLocale(l locale.Locale) Option {
	return func(c *Composer) {
		if l.Valid() {
			c.locale = l
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *Composer) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}
