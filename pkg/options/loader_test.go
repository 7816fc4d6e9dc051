package options

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/locale"
)

func values(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Value)
	}
	return out
}

func TestLoader_PaginationAccumulates(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		wantSentinel bool
	}{
		{name: "more pages remain", total: 35, wantSentinel: true},
		{name: "last page", total: 20, wantSentinel: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := listingServer(t, tt.total, 10, nil)
			defer srv.Close()

			loader := NewLoader(
				WithEndpoint(srv.URL, "name"),
				WithFetcher(NewHTTPFetcher(WithHTTPClient(srv.Client()))),
			)
			defer loader.Close()

			res, err := loader.Load(context.Background())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(res.Options) != 11 || !res.Options[10].IsSeeMore() {
				t.Fatalf("expected 10 options plus sentinel, got %v", values(res.Options))
			}
			firstPage := res.Options[:10]

			selected, ok, err := loader.Select(context.Background(), res.Options[10])
			if err != nil || ok || selected != (Option{}) {
				t.Fatalf("sentinel should page, got %v %v %v", selected, ok, err)
			}
			if loader.Page() != 2 {
				t.Fatalf("expected page 2, got %d", loader.Page())
			}

			got := loader.Options()
			wantLen := 20
			if tt.wantSentinel {
				wantLen = 21
			}
			if len(got) != wantLen {
				t.Fatalf("expected %d options, got %d", wantLen, len(got))
			}
			if tt.wantSentinel != got[len(got)-1].IsSeeMore() {
				t.Fatalf("sentinel presence mismatch: %v", values(got))
			}
			if diff := cmp.Diff(firstPage, got[:10]); diff != "" {
				t.Fatalf("first page should be a stable prefix (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoader_SetSearchResetsPage(t *testing.T) {
	var queries []Query
	fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
		queries = append(queries, q)
		return Page{
			Options:    []Option{{Label: q.Search, Value: q.Search + "-" + string(rune('0'+q.Page))}},
			Pagination: Pagination{Page: q.Page, HasNext: true},
		}, nil
	})
	loader := NewLoader(WithFetcher(fetcher), WithEndpoint("https://api.test/items", "name"), WithExtraQuery("menuId=3"))

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := loader.SeeMore(context.Background()); err != nil {
		t.Fatalf("see more: %v", err)
	}
	if diff := cmp.Diff([]string{"-1", "-2", SeeMoreValue}, values(loader.Options())); diff != "" {
		t.Fatalf("accumulated options mismatch (-want +got):\n%s", diff)
	}

	res, err := loader.SetSearch(context.Background(), "pi")
	if err != nil {
		t.Fatalf("set search: %v", err)
	}
	if loader.Page() != 1 {
		t.Fatalf("search should reset the page, got %d", loader.Page())
	}
	if diff := cmp.Diff([]string{"pi-1", SeeMoreValue}, values(res.Options)); diff != "" {
		t.Fatalf("options after search mismatch (-want +got):\n%s", diff)
	}

	last := queries[len(queries)-1]
	if last.Search != "pi" || last.Page != 1 || last.Extra != "menuId=3" || last.SearchField != "name" {
		t.Fatalf("unexpected query %+v", last)
	}
}

func TestLoader_StaticOptionsTakePrecedence(t *testing.T) {
	var calls int32
	fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
		atomic.AddInt32(&calls, 1)
		return Page{}, nil
	})
	static := []Option{{Label: "Mild", Value: "1"}, {Label: "Hot", Value: "2"}}
	loader := NewLoader(WithStatic(static), WithFetcher(fetcher), WithEndpoint("https://api.test", "q"))

	if loader.Remote() {
		t.Fatalf("static list should disable remote fetching")
	}
	res, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(static, res.Options); diff != "" {
		t.Fatalf("static options mismatch (-want +got):\n%s", diff)
	}
	res, _ = loader.SetSearch(context.Background(), "ho")
	if diff := cmp.Diff([]Option{{Label: "Hot", Value: "2"}}, res.Options); diff != "" {
		t.Fatalf("filtered options mismatch (-want +got):\n%s", diff)
	}
	if _, err := loader.SeeMore(context.Background()); err != nil {
		t.Fatalf("see more: %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("fetcher should never be called, got %d calls", calls)
	}
}

func TestLoader_ErrorIsDistinctFromEmpty(t *testing.T) {
	boom := errors.New("upstream down")
	fail := true
	fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
		if fail {
			return Page{}, boom
		}
		return Page{Pagination: Pagination{Page: 1}}, nil
	})
	loader := NewLoader(WithFetcher(fetcher), WithEndpoint("https://api.test", "q"))

	res, err := loader.Load(context.Background())
	if !errors.Is(err, boom) || res.State != StateError || !errors.Is(loader.Result().Err, boom) {
		t.Fatalf("expected error state, got %+v (%v)", res, err)
	}
	if res.Empty() {
		t.Fatalf("failed fetch must not look like an empty listing")
	}

	fail = false
	res, err = loader.Load(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !res.Empty() {
		t.Fatalf("expected an empty success result, got %+v", res)
	}
}

func TestLoader_FailedSeeMoreKeepsLoadedPages(t *testing.T) {
	boom := errors.New("page unavailable")
	pageOf := func(page int) Page {
		return Page{
			Options: []Option{
				{Label: fmt.Sprintf("%d-a", page), Value: fmt.Sprintf("%d-a", page)},
				{Label: fmt.Sprintf("%d-b", page), Value: fmt.Sprintf("%d-b", page)},
			},
			Pagination: Pagination{Page: page, Limit: 2, Total: 8, TotalPages: 4, HasNext: page < 4},
		}
	}

	tests := []struct {
		name  string
		retry func(*Loader) (Result, error)
	}{
		{name: "retry with see more", retry: func(l *Loader) (Result, error) { return l.SeeMore(context.Background()) }},
		{name: "retry with load", retry: func(l *Loader) (Result, error) { return l.Load(context.Background()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failPage := 3
			var requested []int
			fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
				requested = append(requested, q.Page)
				if q.Page == failPage {
					return Page{}, boom
				}
				return pageOf(q.Page), nil
			})
			loader := NewLoader(WithFetcher(fetcher), WithEndpoint("https://api.test", "q"))
			defer loader.Close()

			if _, err := loader.Load(context.Background()); err != nil {
				t.Fatalf("load: %v", err)
			}
			if _, err := loader.SeeMore(context.Background()); err != nil {
				t.Fatalf("see more: %v", err)
			}
			loaded := []string{"1-a", "1-b", "2-a", "2-b", SeeMoreValue}

			res, err := loader.SeeMore(context.Background())
			if !errors.Is(err, boom) {
				t.Fatalf("expected page 3 to fail, got %v", err)
			}
			if res.State != StateError || loader.Result().State != StateError {
				t.Fatalf("expected error state, got %v", loader.Result().State)
			}
			if diff := cmp.Diff(loaded, values(loader.Options())); diff != "" {
				t.Fatalf("failed page must keep loaded options (-want +got):\n%s", diff)
			}
			if loader.Page() != 2 {
				t.Fatalf("expected page to stay at 2, got %d", loader.Page())
			}

			failPage = 0
			res, err = tt.retry(loader)
			if err != nil {
				t.Fatalf("retry: %v", err)
			}
			want := []string{"1-a", "1-b", "2-a", "2-b", "3-a", "3-b", SeeMoreValue}
			if diff := cmp.Diff(want, values(res.Options)); diff != "" {
				t.Fatalf("retry should append page 3 (-want +got):\n%s", diff)
			}
			if res.State != StateSuccess || loader.Page() != 3 {
				t.Fatalf("expected success on page 3, got %v page %d", res.State, loader.Page())
			}
			if diff := cmp.Diff([]int{1, 2, 3, 3}, requested); diff != "" {
				t.Fatalf("requested pages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoader_FailedFirstPageRetriesWithoutAppending(t *testing.T) {
	fail := true
	fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
		if fail {
			return Page{}, errors.New("upstream down")
		}
		return Page{
			Options:    []Option{{Label: "only", Value: "only"}},
			Pagination: Pagination{Page: q.Page, Limit: 10, Total: 1, TotalPages: 1},
		}, nil
	})
	loader := NewLoader(WithFetcher(fetcher), WithEndpoint("https://api.test", "q"))
	defer loader.Close()

	if _, err := loader.SetSearch(context.Background(), "on"); err == nil {
		t.Fatalf("expected search to fail")
	}

	fail = false
	for i := 0; i < 2; i++ {
		res, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if diff := cmp.Diff([]string{"only"}, values(res.Options)); diff != "" {
			t.Fatalf("load %d options (-want +got):\n%s", i, diff)
		}
	}
	if loader.Page() != 1 {
		t.Fatalf("expected page 1, got %d", loader.Page())
	}
}

func TestLoader_DiscardsSupersededResponses(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
		if q.Search == "slow" {
			close(started)
			<-release
			return Page{Options: []Option{{Label: "late", Value: "late"}}}, nil
		}
		return Page{Options: []Option{{Label: q.Search, Value: q.Search}}}, nil
	})
	loader := NewLoader(WithFetcher(fetcher), WithEndpoint("https://api.test", "q"))

	done := make(chan error, 1)
	go func() {
		_, err := loader.SetSearch(context.Background(), "slow")
		done <- err
	}()
	<-started

	if _, err := loader.SetSearch(context.Background(), "fast"); err != nil {
		t.Fatalf("fast search: %v", err)
	}
	close(release)

	if err := <-done; !IsStale(err) {
		t.Fatalf("expected stale error for superseded request, got %v", err)
	}
	if diff := cmp.Diff([]string{"fast"}, values(loader.Options())); diff != "" {
		t.Fatalf("late response leaked (-want +got):\n%s", diff)
	}
}

func TestLoader_CloseDropsLateResponse(t *testing.T) {
	started := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, q Query) (Page, error) {
		close(started)
		<-ctx.Done()
		return Page{Options: []Option{{Label: "late", Value: "late"}}}, ctx.Err()
	})
	loader := NewLoader(WithFetcher(fetcher), WithEndpoint("https://api.test", "q"))

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background())
		done <- err
	}()
	<-started
	loader.Close()

	if err := <-done; !IsStale(err) {
		t.Fatalf("expected stale error after close, got %v", err)
	}
	if len(loader.Options()) != 0 {
		t.Fatalf("closed loader should not apply late options")
	}
	if _, err := loader.SetSearch(context.Background(), "x"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSeeMoreLabelFollowsLocale(t *testing.T) {
	if got := SeeMore(locale.English).Label; got != "See more" {
		t.Fatalf("english sentinel label = %q", got)
	}
	if got := SeeMore(locale.Arabic); got.Label == "See more" || !got.IsSeeMore() {
		t.Fatalf("arabic sentinel = %+v", got)
	}
}
