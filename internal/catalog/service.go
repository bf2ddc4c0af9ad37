// Package catalog reads the public browse surface: product search,
// product detail, the category tree, and published announcements. All
// endpoints are anonymous; no identity is required.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/javaweb/webshop-client/internal/gateway"
	"github.com/javaweb/webshop-client/pkg/pagination"
)

// Product is the list/detail projection of one sellable item.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Sales       int             `json:"sales"`
	CoverImage  string          `json:"coverImage"`
	Images      []string        `json:"images"`
	CategoryID  int64           `json:"categoryId"`
	Status      int             `json:"status"`
	SKUs        []SKU           `json:"skus"`
}

// SKU is one purchasable variant of a product.
type SKU struct {
	ID       int64           `json:"id"`
	SpecInfo string          `json:"specInfo"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// Category is one node of the category tree.
type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	ParentID int64      `json:"parentId"`
	Sort     int        `json:"sort"`
	Children []Category `json:"children"`
}

// Announcement is a published storefront notice.
type Announcement struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// SearchQuery narrows a product listing. Sort is passed through as the
// backend's sort key (e.g. "sales" or "price").
type SearchQuery struct {
	Keyword    string
	CategoryID int64
	Sort       string
	pagination.Params
}

type caller interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// Service is the catalog read client.
type Service struct {
	api caller
}

func NewService(api caller) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("gateway caller is required")
	}
	return &Service{api: api}, nil
}

// SearchProducts lists on-sale products matching the query.
func (s *Service) SearchProducts(ctx context.Context, q SearchQuery) (*pagination.Page[Product], error) {
	params := q.Params.Normalize()
	query := url.Values{}
	query.Set("pageNum", strconv.Itoa(params.Page))
	query.Set("pageSize", strconv.Itoa(params.PageSize))
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}
	if q.CategoryID != 0 {
		query.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	var page pagination.Page[Product]
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/product/list",
		Query:     query,
		Operation: "catalog.search",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches one product with its SKUs.
func (s *Service) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/product/" + strconv.FormatInt(id, 10),
		Operation: "catalog.product",
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CategoryTree fetches the nested category hierarchy.
func (s *Service) CategoryTree(ctx context.Context) ([]Category, error) {
	var tree []Category
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/category/tree",
		Operation: "catalog.categories",
	}, &tree)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// PublishedAnnouncements lists notices visible to shoppers.
func (s *Service) PublishedAnnouncements(ctx context.Context) ([]Announcement, error) {
	var out []Announcement
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/announcements/published",
		Operation: "catalog.announcements",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
