package listing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formbuilder/pkg/options"
)

var testItems = []Item{
	{ID: "1", NameEn: "Riyadh", NameAr: "الرياض", ParentID: "sa"},
	{ID: "2", NameEn: "Jeddah", NameAr: "جدة", ParentID: "sa"},
	{ID: "3", NameEn: "Dubai", NameAr: "دبي", ParentID: "ae"},
	{ID: "4", NameEn: "Abu Dhabi", NameAr: "أبو ظبي", ParentID: "ae"},
	{ID: "5", NameEn: "Al Riyadh Gardens", NameAr: "حدائق الرياض", ParentID: "sa"},
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var payload Response
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec, payload
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestHandler_Envelope(t *testing.T) {
	h := Handler(WithItems(testItems), WithDefaultLimit(2))

	rec, payload := get(t, h, "/api/cities?page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if diff := cmp.Diff([]string{"3", "4"}, ids(payload.Data)); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
	want := options.Pagination{Page: 2, Limit: 2, Total: 5, TotalPages: 3, HasPrevious: true, HasNext: true}
	if diff := cmp.Diff(want, payload.Pagination); diff != "" {
		t.Fatalf("pagination mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SearchBothLanguagesPrefixFirst(t *testing.T) {
	h := Handler(WithItems(testItems))

	_, payload := get(t, h, "/api/cities?search=riyadh")
	if diff := cmp.Diff([]string{"1", "5"}, ids(payload.Data)); diff != "" {
		t.Fatalf("english search mismatch (-want +got):\n%s", diff)
	}

	_, payload = get(t, h, "/api/cities?search="+"%D8%A7%D9%84%D8%B1%D9%8A%D8%A7%D8%B6")
	if diff := cmp.Diff([]string{"1", "5"}, ids(payload.Data)); diff != "" {
		t.Fatalf("arabic search mismatch (-want +got):\n%s", diff)
	}

	_, payload = get(t, h, "/api/cities?search=nowhere")
	if payload.Data == nil || len(payload.Data) != 0 || payload.Pagination.HasNext {
		t.Fatalf("expected empty data array, got %#v", payload)
	}
}

func TestHandler_ScopeAndCustomParams(t *testing.T) {
	h := Handler(
		WithItems(testItems),
		WithSearchParam("q"),
		WithLimitParam("l"),
		WithScopeParam("countryId"),
	)

	_, payload := get(t, h, "/api/cities?countryId=ae&q=&l=1")
	if diff := cmp.Diff([]string{"3"}, ids(payload.Data)); diff != "" {
		t.Fatalf("scoped page mismatch (-want +got):\n%s", diff)
	}
	if payload.Pagination.Total != 2 || !payload.Pagination.HasNext {
		t.Fatalf("unexpected pagination: %#v", payload.Pagination)
	}
}

func TestHandler_LimitClamped(t *testing.T) {
	h := Handler(WithItems(testItems), WithMaxLimit(3))

	_, payload := get(t, h, "/api/cities?limit=50")
	if len(payload.Data) != 3 || payload.Pagination.Limit != 3 {
		t.Fatalf("expected limit clamped to 3, got %#v", payload.Pagination)
	}
	_, payload = get(t, h, "/api/cities?limit=-4")
	if payload.Pagination.Limit != 3 {
		t.Fatalf("expected default limit clamped to max, got %d", payload.Pagination.Limit)
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := Handler(
		WithItems(testItems),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusUnauthorized}
		}),
	)

	rec, _ := get(t, h, "/api/cities")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := Handler(WithItems(testItems))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cities", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", rec.Header().Get("Allow"))
	}
}

func TestHandler_DefaultItems(t *testing.T) {
	_, payload := get(t, Handler(), "/api/cities?search=dam")
	if len(payload.Data) != 1 || payload.Data[0].NameAr != "الدمام" {
		t.Fatalf("unexpected default listing: %#v", payload.Data)
	}
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := Handler(WithItems(testItems), WithRegisterer(reg))
	// A second handler on the same registry shares the collectors.
	_ = Handler(WithItems(testItems), WithRegisterer(reg))

	get(t, h, "/api/cities")
	get(t, h, "/api/cities?page=2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cities", nil))

	expected := `
# HELP formbuilder_listing_requests_total Listing requests by route and status code.
# TYPE formbuilder_listing_requests_total counter
formbuilder_listing_requests_total{code="200",route="/api/cities"} 2
formbuilder_listing_requests_total{code="405",route="/api/cities"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "formbuilder_listing_requests_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}
