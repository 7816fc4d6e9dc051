package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const fileExt = ".yaml"

// FileStore keeps one YAML document per draft in a directory.
type FileStore struct {
	dir string
	cfg config
}

var _ DraftStore = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir, creating it when missing.
func NewFileStore(dir string, options ...Option) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	return &FileStore{dir: dir, cfg: newConfig(options)}, nil
}

// Path returns the file a draft id is stored in.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// Save writes app atomically through a temporary file.
func (s *FileStore) Save(ctx context.Context, app model.Application) (model.Application, error) {
	if err := ctx.Err(); err != nil {
		return model.Application{}, err
	}
	out, err := s.cfg.prepare(app)
	if err != nil {
		return model.Application{}, err
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return model.Application{}, fmt.Errorf("store: encode draft: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+out.ID+"-*")
	if err != nil {
		return model.Application{}, fmt.Errorf("store: write draft: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return model.Application{}, fmt.Errorf("store: write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.Application{}, fmt.Errorf("store: write draft: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(out.ID)); err != nil {
		return model.Application{}, fmt.Errorf("store: write draft: %w", err)
	}

	s.cfg.logger.Debugw("draft saved", "id", out.ID, "path", s.Path(out.ID))
	return out, nil
}

// Load reads a draft.
func (s *FileStore) Load(ctx context.Context, id string) (model.Application, error) {
	if err := ctx.Err(); err != nil {
		return model.Application{}, err
	}
	if err := checkID(id); err != nil {
		return model.Application{}, err
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Application{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("store: read draft: %w", err)
	}
	var app model.Application
	if err := yaml.Unmarshal(data, &app); err != nil {
		return model.Application{}, fmt.Errorf("store: decode draft %s: %w", id, err)
	}
	if app.ID == "" {
		app.ID = id
	}
	return app, nil
}

// List returns the drafts in the directory ordered by id. Files that do not
// decode are skipped and logged.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list drafts: %w", err)
	}
	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		app, err := s.Load(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.cfg.logger.Warnw("skipping unreadable draft", "file", name, "error", err)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, summarize(app, info.ModTime()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a draft file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("store: delete draft: %w", err)
	}
	return nil
}
