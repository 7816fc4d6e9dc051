package restclient

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/options"
)

// Menu is one restaurant menu.
type Menu struct {
	ID      string `json:"id,omitempty"`
	NameEn  string `json:"nameEn"`
	NameAr  string `json:"nameAr"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Category groups menu items.
type Category struct {
	ID     string `json:"id,omitempty"`
	MenuID string `json:"menuId,omitempty"`
	NameEn string `json:"nameEn"`
	NameAr string `json:"nameAr"`
}

// Item is one orderable entry of a category.
type Item struct {
	ID            string  `json:"id,omitempty"`
	MenuID        string  `json:"menuId,omitempty"`
	CategoryID    string  `json:"categoryId,omitempty"`
	NameEn        string  `json:"nameEn"`
	NameAr        string  `json:"nameAr"`
	DescriptionEn string  `json:"descriptionEn,omitempty"`
	DescriptionAr string  `json:"descriptionAr,omitempty"`
	Price         float64 `json:"price"`
}

// Ad is a promotional banner shown on a menu.
type Ad struct {
	ID       string `json:"id,omitempty"`
	MenuID   string `json:"menuId,omitempty"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link,omitempty"`
}

// List is the paginated envelope returned by listing endpoints.
type List[T any] struct {
	Data       []T                `json:"data"`
	Pagination options.Pagination `json:"pagination"`
}

// Menus wraps the menu resources. Categories, items, and ads are nested
// under their menu for every write except ad deletion.
type Menus struct {
	client *Client
}

// Menus returns the menu resource helpers.
func (c *Client) Menus() *Menus {
	return &Menus{client: c}
}

func menuPath(menuID string, rest ...string) string {
	parts := append([]string{"menus", url.PathEscape(menuID)}, rest...)
	return strings.Join(parts, "/")
}

func missing(ids ...string) bool {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return true
		}
	}
	return false
}

// CreateMenu creates a menu and returns the stored record.
func (m *Menus) CreateMenu(ctx context.Context, menu Menu) (Menu, error) {
	var out Menu
	err := m.client.Post(ctx, "menus", menu, &out)
	return out, err
}

// UpdateMenu patches an existing menu.
func (m *Menus) UpdateMenu(ctx context.Context, menu Menu) (Menu, error) {
	if missing(menu.ID) {
		return Menu{}, ErrMissingID
	}
	var out Menu
	err := m.client.Patch(ctx, menuPath(menu.ID), menu, &out)
	return out, err
}

// DeleteMenu removes a menu.
func (m *Menus) DeleteMenu(ctx context.Context, id string) error {
	if missing(id) {
		return ErrMissingID
	}
	return m.client.Delete(ctx, menuPath(id), nil)
}

// ListCategories returns one page of the categories of menuID.
func (m *Menus) ListCategories(ctx context.Context, menuID string, page, limit int) (List[Category], error) {
	var out List[Category]
	err := m.client.Get(ctx, menuPath(menuID, "categories"), pageQuery(page, limit), &out)
	return out, err
}

// CreateCategory creates a category under its MenuID and returns the stored
// record.
func (m *Menus) CreateCategory(ctx context.Context, category Category) (Category, error) {
	if missing(category.MenuID) {
		return Category{}, ErrMissingID
	}
	var out Category
	err := m.client.Post(ctx, menuPath(category.MenuID, "categories"), category, &out)
	return out, err
}

// UpdateCategory patches an existing category.
func (m *Menus) UpdateCategory(ctx context.Context, category Category) (Category, error) {
	if missing(category.MenuID, category.ID) {
		return Category{}, ErrMissingID
	}
	var out Category
	err := m.client.Patch(ctx, menuPath(category.MenuID, "categories", url.PathEscape(category.ID)), category, &out)
	return out, err
}

// DeleteCategory removes a category of menuID.
func (m *Menus) DeleteCategory(ctx context.Context, menuID, id string) error {
	if missing(menuID, id) {
		return ErrMissingID
	}
	return m.client.Delete(ctx, menuPath(menuID, "categories", url.PathEscape(id)), nil)
}

// ListItems returns one page of the items of menuID, narrowed to categoryID
// when it is not empty.
func (m *Menus) ListItems(ctx context.Context, menuID, categoryID string, page, limit int) (List[Item], error) {
	query := pageQuery(page, limit)
	if categoryID != "" {
		query.Set("categoryId", categoryID)
	}
	var out List[Item]
	err := m.client.Get(ctx, menuPath(menuID, "items"), query, &out)
	return out, err
}

// CreateItem creates an item under its MenuID.
func (m *Menus) CreateItem(ctx context.Context, item Item) (Item, error) {
	if missing(item.MenuID) {
		return Item{}, ErrMissingID
	}
	var out Item
	err := m.client.Post(ctx, menuPath(item.MenuID, "items"), item, &out)
	return out, err
}

// UpdateItem patches an existing item.
func (m *Menus) UpdateItem(ctx context.Context, item Item) (Item, error) {
	if missing(item.MenuID, item.ID) {
		return Item{}, ErrMissingID
	}
	var out Item
	err := m.client.Patch(ctx, menuPath(item.MenuID, "items", url.PathEscape(item.ID)), item, &out)
	return out, err
}

// DeleteItem removes an item of menuID.
func (m *Menus) DeleteItem(ctx context.Context, menuID, id string) error {
	if missing(menuID, id) {
		return ErrMissingID
	}
	return m.client.Delete(ctx, menuPath(menuID, "items", url.PathEscape(id)), nil)
}

// ListAds returns one page of the ads of menuID.
func (m *Menus) ListAds(ctx context.Context, menuID string, page, limit int) (List[Ad], error) {
	var out List[Ad]
	err := m.client.Get(ctx, menuPath(menuID, "ads"), pageQuery(page, limit), &out)
	return out, err
}

// CreateAd creates an ad under its MenuID.
func (m *Menus) CreateAd(ctx context.Context, ad Ad) (Ad, error) {
	if missing(ad.MenuID) {
		return Ad{}, ErrMissingID
	}
	var out Ad
	err := m.client.Post(ctx, menuPath(ad.MenuID, "ads"), ad, &out)
	return out, err
}

// UpdateAd patches an existing ad.
func (m *Menus) UpdateAd(ctx context.Context, ad Ad) (Ad, error) {
	if missing(ad.MenuID, ad.ID) {
		return Ad{}, ErrMissingID
	}
	var out Ad
	err := m.client.Patch(ctx, menuPath(ad.MenuID, "ads", url.PathEscape(ad.ID)), ad, &out)
	return out, err
}

// DeleteAd removes an ad.
func (m *Menus) DeleteAd(ctx context.Context, id string) error {
	if missing(id) {
		return ErrMissingID
	}
	return m.client.Delete(ctx, "ads/"+url.PathEscape(id), nil)
}

// CategoryLoader returns a select loader listing the categories of menuID
// through the same transport, token, and language as the client.
func (m *Menus) CategoryLoader(menuID string, opts ...options.LoaderOption) *options.Loader {
	fetcher := options.NewHTTPFetcher(
		options.WithHTTPClient(m.client.authorizedHTTPClient()),
		options.WithLocale(m.client.locale),
		options.WithLogger(m.client.logger),
	)
	base := []options.LoaderOption{
		options.WithEndpoint(m.client.URL(menuPath(menuID, "categories")), "search"),
		options.WithFetcher(fetcher),
		options.WithLoaderLocale(m.client.locale),
		options.WithLoaderLogger(m.client.logger),
	}
	return options.NewLoader(append(base, opts...)...)
}

func pageQuery(page, limit int) url.Values {
	query := url.Values{}
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}
