package listing

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadItems(t *testing.T) {
	raw := `
- id: "1"
  nameEn: " Riyadh "
  nameAr: الرياض
- id: ""
  nameEn: Nameless
- id: "1"
  nameEn: Duplicate
- id: "2"
  nameEn: Jeddah
  nameAr: جدة
  parentId: sa
`
	items, err := LoadItems(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []Item{
		{ID: "1", NameEn: "Riyadh", NameAr: "الرياض"},
		{ID: "2", NameEn: "Jeddah", NameAr: "جدة", ParentID: "sa"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadItems(nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if _, err := LoadItems(strings.NewReader("- [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultItems(t *testing.T) {
	items, err := DefaultItems()
	if err != nil {
		t.Fatalf("default items: %v", err)
	}
	if len(items) != 15 || items[0].NameEn != "Riyadh" {
		t.Fatalf("unexpected default items: %d %#v", len(items), items[0])
	}
	items[0].NameEn = "mutated"
	again, _ := DefaultItems()
	if again[0].NameEn != "Riyadh" {
		t.Fatalf("DefaultItems returned shared storage")
	}
}

func TestPaginate_PastEnd(t *testing.T) {
	page, meta := Paginate(testItems, 9, 2)
	if len(page) != 0 || page == nil {
		t.Fatalf("expected empty non-nil page, got %#v", page)
	}
	if meta.TotalPages != 3 || meta.HasNext || !meta.HasPrevious {
		t.Fatalf("unexpected pagination: %#v", meta)
	}
}
