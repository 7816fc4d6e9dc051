package options

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// listingServer serves total rows in pages of limit, filtered by ?name=.
func listingServer(t *testing.T, total, limit int, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		start := (page - 1) * limit
		rows := []map[string]any{}
		for i := start; i < start+limit && i < total; i++ {
			rows = append(rows, map[string]any{
				"id":     i + 1,
				"nameEn": fmt.Sprintf("City %d", i+1),
				"nameAr": fmt.Sprintf("مدينة %d", i+1),
			})
		}
		totalPages := (total + limit - 1) / limit
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": rows,
			"pagination": map[string]any{
				"page":        page,
				"limit":       limit,
				"total":       total,
				"totalPages":  totalPages,
				"hasPrevious": page > 1,
				"hasNext":     page < totalPages,
			},
		})
	}))
}

func TestQueryURL(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "search and page",
			query: Query{BaseURL: "https://api.test/cities", SearchField: "name", Search: "riy", Page: 2},
			want:  "https://api.test/cities?name=riy&page=2",
		},
		{
			name:  "extra appended verbatim",
			query: Query{BaseURL: "https://api.test/states", SearchField: "name", Extra: "&countryId=5", Limit: 10},
			want:  "https://api.test/states?name=&page=1&limit=10&countryId=5",
		},
		{
			name:  "existing params kept",
			query: Query{BaseURL: "https://api.test/items?active=true", Search: "a b"},
			want:  "https://api.test/items?active=true&search=a+b&page=1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.URL()
			if err != nil {
				t.Fatalf("URL: %v", err)
			}
			if got != tt.want {
				t.Fatalf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPFetcher_MapsRowsByLocale(t *testing.T) {
	var lang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte(`{"data":[{"id":7,"nameEn":"Riyadh","nameAr":"الرياض"},{"id":8,"nameEn":"Jeddah"},{"nameEn":"no id"}],
			"pagination":{"page":1,"limit":10,"total":2,"totalPages":1,"hasPrevious":false,"hasNext":false}}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(WithHTTPClient(srv.Client()))
	page, err := fetcher.Fetch(context.Background(), Query{BaseURL: srv.URL, SearchField: "name", Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if lang != "ar" {
		t.Fatalf("expected Accept-Language ar, got %q", lang)
	}

	want := Page{
		Options: []Option{{Label: "الرياض", Value: "7"}, {Label: "Jeddah", Value: "8"}},
		Pagination: Pagination{
			Page: 1, Limit: 10, Total: 2, TotalPages: 1,
		},
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(WithHTTPClient(srv.Client())).Fetch(context.Background(), Query{BaseURL: srv.URL})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}

	if _, err := NewHTTPFetcher().Fetch(context.Background(), Query{}); !errors.Is(err, ErrNoFetcher) {
		t.Fatalf("expected ErrNoFetcher, got %v", err)
	}
}

func TestHTTPFetcher_CustomPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"rows":[{"code":"SA","title":{"en":"Saudi Arabia"}}]}}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(
		WithHTTPClient(srv.Client()),
		WithResultsPath("result.rows"),
		WithPaginationPath(""),
		WithValueField("code"),
		WithLabelFields("title.en", "title.ar"),
	)
	page, err := fetcher.Fetch(context.Background(), Query{BaseURL: srv.URL, Page: 3, Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := Page{
		Options:    []Option{{Label: "Saudi Arabia", Value: "SA"}},
		Pagination: Pagination{Page: 3, Total: 1},
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
}
