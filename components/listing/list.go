package listing

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/cities.yaml
var dataFS embed.FS

const defaultListPath = "data/cities.yaml"

// Item is one listing row.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	NameEn   string `json:"nameEn" yaml:"nameEn"`
	NameAr   string `json:"nameAr" yaml:"nameAr"`
	ParentID string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
}

var (
	defaultOnce  sync.Once
	defaultItems []Item
	defaultErr   error
)

// DefaultItems returns a copy of the embedded sample list.
func DefaultItems() ([]Item, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		items, err := LoadItems(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultItems = items
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Item{}, defaultItems...), nil
}

// LoadItems decodes a YAML (or JSON) array of items. Rows without an id are
// skipped and later duplicates of an id are dropped; file order is kept.
func LoadItems(r io.Reader) ([]Item, error) {
	if r == nil {
		return nil, fmt.Errorf("listing: missing reader")
	}

	var raw []Item
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("listing: decode items: %w", err)
	}

	items := make([]Item, 0, len(raw))
	seen := map[string]struct{}{}
	for _, item := range raw {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		item.NameEn = strings.TrimSpace(item.NameEn)
		item.NameAr = strings.TrimSpace(item.NameAr)
		items = append(items, item)
	}
	return items, nil
}
