package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CatalogService covers the public product, category, review and address
// reads. These are thin pass-throughs; none of them touch session or cart
// state.
type CatalogService struct {
	c *Client
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryID int
	Search     string
	Page       int
}

func (f ProductFilter) query() string {
	q := url.Values{}
	if f.CategoryID > 0 {
		q.Set("category_id", strconv.Itoa(f.CategoryID))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Products fetches the public product listing.
func (s *CatalogService) Products(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := s.c.doJSON(ctx, "catalog.Products", "GET", "/products"+filter.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Product fetches one product.
func (s *CatalogService) Product(ctx context.Context, id int) (*Product, error) {
	var product Product
	if err := s.c.doJSON(ctx, "catalog.Product", "GET", fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories fetches all categories.
func (s *CatalogService) Categories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := s.c.doJSON(ctx, "catalog.Categories", "GET", "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Reviews fetches the reviews for a product.
func (s *CatalogService) Reviews(ctx context.Context, productID int) ([]Review, error) {
	var resp struct {
		Reviews []Review `json:"reviews"`
	}
	path := fmt.Sprintf("/reviews/product/%d", productID)
	if err := s.c.doJSON(ctx, "catalog.Reviews", "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

// CreateReview posts a review for a product.
func (s *CatalogService) CreateReview(ctx context.Context, productID, rating int, comment string) error {
	payload := map[string]interface{}{
		"product_id": productID,
		"rating":     rating,
		"comment":    comment,
	}
	return s.c.doJSON(ctx, "catalog.CreateReview", "POST", "/reviews", payload, nil)
}

// Addresses fetches the user's saved addresses.
func (s *CatalogService) Addresses(ctx context.Context) ([]Address, error) {
	var resp struct {
		Addresses []Address `json:"addresses"`
	}
	if err := s.c.doJSON(ctx, "catalog.Addresses", "GET", "/addresses", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// CreateAddress saves a delivery address.
func (s *CatalogService) CreateAddress(ctx context.Context, addr Address) (*Address, error) {
	var resp struct {
		Address Address `json:"address"`
	}
	if err := s.c.doJSON(ctx, "catalog.CreateAddress", "POST", "/addresses", addr, &resp); err != nil {
		return nil, err
	}
	return &resp.Address, nil
}
