package restclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/options"
	"github.com/goliatone/go-formbuilder/pkg/restclient"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func newClient(t *testing.T, handler http.HandlerFunc, opts ...restclient.Option) *restclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := restclient.New(srv.URL+"/api/", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	for _, raw := range []string{"", "/api", "localhost"} {
		if _, err := restclient.New(raw); !errors.Is(err, restclient.ErrBaseURL) {
			t.Fatalf("New(%q): expected ErrBaseURL, got %v", raw, err)
		}
	}
}

func TestMenus_ListCategoriesSendsLocaleAndToken(t *testing.T) {
	var got struct {
		path, lang, acceptLanguage, auth, page, limit string
	}
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.lang = r.URL.Query().Get("lang")
		got.acceptLanguage = r.Header.Get("Accept-Language")
		got.auth = r.Header.Get("Authorization")
		got.page = r.URL.Query().Get("page")
		got.limit = r.URL.Query().Get("limit")
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "c1", "menuId": "menu-1", "nameEn": "Starters", "nameAr": "مقبلات"},
			},
			"pagination": map[string]any{"page": 2, "limit": 5, "total": 6, "totalPages": 2, "hasPrevious": true},
		})
	}, restclient.WithLocale(locale.Arabic), restclient.WithToken("secret"))

	list, err := client.Menus().ListCategories(context.Background(), "menu-1", 2, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if got.path != "/api/menus/menu-1/categories" {
		t.Fatalf("path = %q", got.path)
	}
	if got.lang != "ar" || got.acceptLanguage != "ar" {
		t.Fatalf("expected arabic locale, got lang=%q accept=%q", got.lang, got.acceptLanguage)
	}
	if got.auth != "Bearer secret" {
		t.Fatalf("authorization = %q", got.auth)
	}
	if got.page != "2" || got.limit != "5" {
		t.Fatalf("page=%q limit=%q", got.page, got.limit)
	}

	want := restclient.List[restclient.Category]{
		Data:       []restclient.Category{{ID: "c1", MenuID: "menu-1", NameEn: "Starters", NameAr: "مقبلات"}},
		Pagination: options.Pagination{Page: 2, Limit: 5, Total: 6, TotalPages: 2, HasPrevious: true},
	}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMenus_CategoryCRUD(t *testing.T) {
	var calls []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			var body restclient.Category
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.ID == "" {
				body.ID = "c9"
			}
			writeJSON(w, http.StatusOK, body)
		}
	})
	ctx := context.Background()
	menus := client.Menus()

	created, err := menus.CreateCategory(ctx, restclient.Category{MenuID: "menu-1", NameEn: "Mains", NameAr: "أطباق رئيسية"})
	if err != nil || created.ID != "c9" {
		t.Fatalf("create: %+v, %v", created, err)
	}
	created.NameEn = "Main dishes"
	updated, err := menus.UpdateCategory(ctx, created)
	if err != nil || updated.NameEn != "Main dishes" {
		t.Fatalf("update: %+v, %v", updated, err)
	}
	if err := menus.DeleteCategory(ctx, "menu-1", "c9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := menus.UpdateCategory(ctx, restclient.Category{}); !errors.Is(err, restclient.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	want := []string{
		"POST /api/menus/menu-1/categories",
		"PATCH /api/menus/menu-1/categories/c9",
		"DELETE /api/menus/menu-1/categories/c9",
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMenus_NestedRoutes(t *testing.T) {
	var calls []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := r.Method + " " + r.URL.Path
		if q := r.URL.Query().Get("categoryId"); q != "" {
			call += "?categoryId=" + q
		}
		calls = append(calls, call)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "x1"})
	})
	ctx := context.Background()
	menus := client.Menus()

	if _, err := menus.CreateMenu(ctx, restclient.Menu{NameEn: "Lunch", NameAr: "غداء"}); err != nil {
		t.Fatalf("create menu: %v", err)
	}
	if _, err := menus.UpdateMenu(ctx, restclient.Menu{ID: "m1", NameEn: "Dinner"}); err != nil {
		t.Fatalf("update menu: %v", err)
	}
	if _, err := menus.ListItems(ctx, "m1", "c2", 1, 10); err != nil {
		t.Fatalf("list items: %v", err)
	}
	if _, err := menus.CreateItem(ctx, restclient.Item{MenuID: "m1", CategoryID: "c2", NameEn: "Soup", NameAr: "شوربة"}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := menus.UpdateItem(ctx, restclient.Item{MenuID: "m1", ID: "i3", Price: 12}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if err := menus.DeleteItem(ctx, "m1", "i3"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if _, err := menus.UpdateAd(ctx, restclient.Ad{MenuID: "m1", ID: "a4", ImageURL: "https://cdn.example.com/a.png"}); err != nil {
		t.Fatalf("update ad: %v", err)
	}
	if err := menus.DeleteAd(ctx, "a4"); err != nil {
		t.Fatalf("delete ad: %v", err)
	}
	if err := menus.DeleteMenu(ctx, "m1"); err != nil {
		t.Fatalf("delete menu: %v", err)
	}
	if err := menus.DeleteItem(ctx, "", "i3"); !errors.Is(err, restclient.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	want := []string{
		"POST /api/menus",
		"PATCH /api/menus/m1",
		"GET /api/menus/m1/items?categoryId=c2",
		"POST /api/menus/m1/items",
		"PATCH /api/menus/m1/items/i3",
		"DELETE /api/menus/m1/items/i3",
		"PATCH /api/menus/m1/ads/a4",
		"DELETE /api/ads/a4",
		"DELETE /api/menus/m1",
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_StatusErrorCarriesFieldErrors(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"errors":  map[string][]string{"phone": {"Invalid phone"}},
		})
	})

	app := testsupport.SampleApplication()
	err := client.Applications().SubmitStep(context.Background(), app, app.Steps[0], map[string]any{"phone": "1"})

	var statusErr *restclient.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnprocessableEntity || statusErr.Message != "Validation failed" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	fields, ok := restclient.FieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors")
	}
	if diff := cmp.Diff(validation.Errors{"phone": {"Invalid phone"}}, fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplications_SaveComposerReconcilesIDs(t *testing.T) {
	var methods []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		var app model.Application
		if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
			t.Errorf("decode body: %v", err)
		}
		app.ID = "srv-app"
		for i := range app.Steps {
			app.Steps[i].ID = "srv-step"
			for j := range app.Steps[i].Fields {
				app.Steps[i].Fields[j].ID = "srv-field"
			}
		}
		writeJSON(w, http.StatusOK, app)
	})

	composer := builder.New()
	step := composer.AddStep()
	if _, err := composer.AddField(step.ID, model.Field{NameEn: "Guests", NameAr: "الضيوف", Type: model.FieldTypeNumber}); err != nil {
		t.Fatalf("add field: %v", err)
	}

	saved, err := client.Applications().SaveComposer(context.Background(), composer)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != "srv-app" || saved.Steps[0].ID != "srv-step" || saved.Steps[0].Fields[0].ID != "srv-field" {
		t.Fatalf("ids not reconciled: %+v", saved)
	}
	if _, ok := composer.Field("srv-step", "srv-field"); !ok {
		t.Fatalf("composer does not address the server ids")
	}

	if _, err := client.Applications().SaveComposer(context.Background(), composer); err != nil {
		t.Fatalf("second save: %v", err)
	}
	want := []string{"POST /api/applications", "PATCH /api/applications/srv-app"}
	if diff := cmp.Diff(want, methods); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestMenus_CategoryLoader(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data":       []map[string]any{{"id": "c1", "nameEn": "Starters", "nameAr": "مقبلات"}},
			"pagination": map[string]any{"page": 1, "limit": 10, "total": 11, "totalPages": 2, "hasNext": true},
		})
	}, restclient.WithToken("secret"), restclient.WithLocale(locale.Arabic))

	loader := client.Menus().CategoryLoader("menu-1")
	defer loader.Close()

	res, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []options.Option{{Label: "مقبلات", Value: "c1"}, options.SeeMore(locale.Arabic)}
	if diff := cmp.Diff(want, res.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitter_RejectsReentry(t *testing.T) {
	var s restclient.Submitter
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Run(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if !s.Busy() {
		t.Fatalf("expected submitter to be busy")
	}
	if err := s.Run(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, restclient.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	wg.Wait()

	boom := errors.New("boom")
	if err := s.Run(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if s.Busy() {
		t.Fatalf("guard not released after error")
	}
}
