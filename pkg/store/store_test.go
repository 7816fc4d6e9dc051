package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("draft-%d", n)
	}
}

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func stores(t *testing.T) map[string]store.DraftStore {
	t.Helper()
	opts := func() []store.Option {
		return []store.Option{store.WithIDGenerator(sequentialIDs()), store.WithClock(func() time.Time { return fixedNow })}
	}

	files, err := store.NewFileStore(filepath.Join(t.TempDir(), "drafts"), opts()...)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	gormStore, err := store.NewGormStore(db, opts()...)
	if err != nil {
		t.Fatalf("gorm store: %v", err)
	}

	return map[string]store.DraftStore{"file": files, "gorm": gormStore}
}

func TestDraftStore_RoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			app := testsupport.SampleApplication()

			saved, err := s.Save(ctx, app)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if diff := cmp.Diff(app, saved); diff != "" {
				t.Fatalf("saved copy mismatch (-want +got):\n%s", diff)
			}

			loaded, err := s.Load(ctx, "app-1")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(app, loaded); diff != "" {
				t.Fatalf("loaded draft mismatch (-want +got):\n%s", diff)
			}

			app.Steps = app.Steps[:1]
			app.NameEn = "Catering (short)"
			if _, err := s.Save(ctx, app); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			loaded, err = s.Load(ctx, "app-1")
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if len(loaded.Steps) != 1 || loaded.NameEn != "Catering (short)" {
				t.Fatalf("overwrite not persisted: %+v", loaded)
			}
		})
	}
}

func TestDraftStore_AssignsIDsAndLists(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := s.Save(ctx, model.Application{NameEn: "Wedding", NameAr: "زفاف"})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if first.ID != "draft-1" || first.Steps == nil {
				t.Fatalf("unexpected saved draft: %+v", first)
			}
			if _, err := s.Save(ctx, testsupport.SampleApplication()); err != nil {
				t.Fatalf("save sample: %v", err)
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			got := make([]string, 0, len(list))
			for _, summary := range list {
				got = append(got, fmt.Sprintf("%s:%s:%d", summary.ID, summary.NameEn, summary.Steps))
				if summary.UpdatedAt.IsZero() {
					t.Fatalf("summary %s has no update time", summary.ID)
				}
			}
			want := []string{"app-1:Catering request:2", "draft-1:Wedding:0"}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("list mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDraftStore_DeleteAndMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Save(ctx, testsupport.SampleApplication()); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := s.Delete(ctx, "app-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Load(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := s.Delete(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("expected ErrNotFound on second delete, got %v", err)
			}
			if _, err := s.Load(ctx, "../etc/passwd"); !errors.Is(err, store.ErrInvalidID) {
				t.Fatalf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestFileStore_WritesYAML(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, err := s.Save(context.Background(), testsupport.SampleApplication()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := testsupport.MustLoadApplication(t, s.Path("app-1")); got.NameAr != "طلب تموين" {
		t.Fatalf("unexpected yaml content: %+v", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("steps: [\n"), 0o644); err != nil {
		t.Fatalf("write broken draft: %v", err)
	}
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "app-1" {
		t.Fatalf("expected broken draft to be skipped, got %+v", list)
	}
}

func TestOpenPostgres_RequiresDSN(t *testing.T) {
	if _, err := store.OpenPostgres("  "); err == nil {
		t.Fatalf("expected an error for an empty dsn")
	}
}
