// Package store persists application drafts between sessions. Persistence is
// always an explicit call: the composer never writes on its own.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	// ErrNotFound is returned when no draft has the requested id.
	ErrNotFound = errors.New("store: draft not found")
	// ErrInvalidID is returned for ids that cannot name a draft.
	ErrInvalidID = errors.New("store: invalid draft id")
)

// Summary describes one stored draft without its steps.
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	NameEn    string    `json:"nameEn" yaml:"nameEn"`
	NameAr    string    `json:"nameAr" yaml:"nameAr"`
	Steps     int       `json:"steps" yaml:"steps"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// DraftStore saves and restores composed applications.
type DraftStore interface {
	// Save stores app, assigning an id when it has none, and returns the
	// stored copy.
	Save(ctx context.Context, app model.Application) (model.Application, error)
	Load(ctx context.Context, id string) (model.Application, error)
	// List returns summaries ordered by id.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}

// Option configures a store.
type Option func(*config)

type config struct {
	newID  func() string
	now    func() time.Time
	logger logger.Logger
}

// WithIDGenerator overrides how ids are assigned to new drafts.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		c.logger = logger.OrNop(l)
	}
}

func newConfig(options []Option) config {
	cfg := config{
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

func (c config) prepare(app model.Application) (model.Application, error) {
	out := app.Clone()
	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		out.ID = c.newID()
	}
	if err := checkID(out.ID); err != nil {
		return model.Application{}, err
	}
	if out.Steps == nil {
		out.Steps = []model.Step{}
	}
	return out, nil
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return ErrInvalidID
	}
	return nil
}

func summarize(app model.Application, updated time.Time) Summary {
	return Summary{
		ID:        app.ID,
		NameEn:    app.NameEn,
		NameAr:    app.NameAr,
		Steps:     len(app.Steps),
		UpdatedAt: updated,
	}
}
