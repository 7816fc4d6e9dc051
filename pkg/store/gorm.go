package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// MemoryDSN opens a private in-memory SQLite database shared by the
// connections of one pool.
const MemoryDSN = "file::memory:?cache=shared"

// draftRecord is the row shape: bilingual names for listing plus the whole
// application as a JSON document.
type draftRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	NameEn    string
	NameAr    string
	Steps     int
	Document  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (draftRecord) TableName() string {
	return "application_drafts"
}

// GormStore keeps drafts in a SQL table through GORM.
type GormStore struct {
	db  *gorm.DB
	cfg config
}

var _ DraftStore = (*GormStore)(nil)

// OpenSQLite opens a SQLite database with GORM's own logging silenced.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = MemoryDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %q: %w", dsn, err)
	}
	return db, nil
}

// OpenPostgres opens a PostgreSQL database with GORM's own logging
// silenced.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("store: postgres dsn is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	return db, nil
}

// NewGormStore migrates the drafts table and returns a store over db.
func NewGormStore(db *gorm.DB, options ...Option) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: gorm db is required")
	}
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate drafts: %w", err)
	}
	return &GormStore{db: db, cfg: newConfig(options)}, nil
}

// Save upserts the draft row.
func (s *GormStore) Save(ctx context.Context, app model.Application) (model.Application, error) {
	out, err := s.cfg.prepare(app)
	if err != nil {
		return model.Application{}, err
	}
	doc, err := json.Marshal(out)
	if err != nil {
		return model.Application{}, fmt.Errorf("store: encode draft: %w", err)
	}

	now := s.cfg.now().UTC()
	record := draftRecord{
		ID:        out.ID,
		NameEn:    out.NameEn,
		NameAr:    out.NameAr,
		Steps:     len(out.Steps),
		Document:  string(doc),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing draftRecord
		res := tx.Select("id", "created_at").Limit(1).Find(&existing, "id = ?", out.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			record.CreatedAt = existing.CreatedAt
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return model.Application{}, fmt.Errorf("store: save draft %s: %w", out.ID, err)
	}
	s.cfg.logger.Debugw("draft saved", "id", out.ID, "steps", record.Steps)
	return out, nil
}

// Load decodes the stored document.
func (s *GormStore) Load(ctx context.Context, id string) (model.Application, error) {
	if err := checkID(id); err != nil {
		return model.Application{}, err
	}
	var record draftRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Application{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("store: load draft %s: %w", id, err)
	}

	var app model.Application
	if err := json.Unmarshal([]byte(record.Document), &app); err != nil {
		return model.Application{}, fmt.Errorf("store: decode draft %s: %w", id, err)
	}
	return app, nil
}

// List returns summaries from the indexed columns without decoding documents.
func (s *GormStore) List(ctx context.Context) ([]Summary, error) {
	var records []draftRecord
	err := s.db.WithContext(ctx).
		Select("id", "name_en", "name_ar", "steps", "updated_at").
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("store: list drafts: %w", err)
	}
	out := make([]Summary, 0, len(records))
	for _, r := range records {
		out = append(out, Summary{ID: r.ID, NameEn: r.NameEn, NameAr: r.NameAr, Steps: r.Steps, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

// Delete removes the draft row.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&draftRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("store: delete draft %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
