package listing

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/options"
)

// Search returns the items whose English or Arabic name contains query,
// prefix matches first. An empty query returns every item in list order.
// A non-empty scope keeps only items with that ParentID.
func Search(items []Item, query, scope string) []Item {
	scope = strings.TrimSpace(scope)
	query = strings.ToLower(strings.TrimSpace(query))

	matches := make([]matchedItem, 0, len(items))
	for i, item := range items {
		if scope != "" && item.ParentID != scope {
			continue
		}
		if query == "" {
			matches = append(matches, matchedItem{item: item, order: i})
			continue
		}
		en := strings.ToLower(item.NameEn)
		ar := strings.ToLower(item.NameAr)
		if !strings.Contains(en, query) && !strings.Contains(ar, query) {
			continue
		}
		matches = append(matches, matchedItem{
			item:     item,
			order:    i,
			isPrefix: strings.HasPrefix(en, query) || strings.HasPrefix(ar, query),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].order < matches[j].order
	})

	out := make([]Item, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.item)
	}
	return out
}

// Paginate slices one page out of items. Pages past the end are empty but
// still report the totals.
func Paginate(items []Item, page, limit int) ([]Item, options.Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit

	meta := options.Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}

	start := (page - 1) * limit
	if start >= total {
		return []Item{}, meta
	}
	end := min(start+limit, total)
	return append([]Item{}, items[start:end]...), meta
}

type matchedItem struct {
	item     Item
	order    int
	isPrefix bool
}
