package client

import (
	"context"
	"fmt"

	"github.com/surplusmarket/client-go/listing"
)

// VendorService covers the vendor-side product and order endpoints. Product
// writes consume the tagged encoding produced by listing.Encode; this layer
// only serializes whichever variant it is handed.
type VendorService struct {
	c *Client
}

// Products fetches the vendor's own products.
func (s *VendorService) Products(ctx context.Context) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := s.c.doJSON(ctx, "vendor.Products", "GET", "/vendor/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct submits a new product in whichever encoding the draft
// produced.
func (s *VendorService) CreateProduct(ctx context.Context, enc listing.Encoded) (*Product, error) {
	return s.submitProduct(ctx, "vendor.CreateProduct", "POST", "/vendor/products", enc)
}

// UpdateProduct updates an existing product.
func (s *VendorService) UpdateProduct(ctx context.Context, id int, enc listing.Encoded) (*Product, error) {
	return s.submitProduct(ctx, "vendor.UpdateProduct", "PUT", fmt.Sprintf("/vendor/products/%d", id), enc)
}

func (s *VendorService) submitProduct(ctx context.Context, op, method, path string, enc listing.Encoded) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}

	switch v := enc.(type) {
	case listing.Structured:
		if err := s.c.doJSON(ctx, op, method, path, v.Payload, &resp); err != nil {
			return nil, err
		}
	case listing.Multipart:
		fields := make([]formField, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, formField{name: f.Name, value: f.Value})
		}
		body, contentType, err := multipartBody(fields, "image", v.Attachment.Filename, v.Attachment.Data)
		if err != nil {
			return nil, &APIError{Op: op, Err: fmt.Errorf("failed to encode multipart body: %w", err)}
		}
		if err := s.c.do(ctx, op, method, path, body, contentType, &resp); err != nil {
			return nil, err
		}
	default:
		return nil, &APIError{Op: op, Err: fmt.Errorf("unknown encoding %q", enc.ContentKind())}
	}

	return &resp.Product, nil
}

// DeleteProduct removes a product.
func (s *VendorService) DeleteProduct(ctx context.Context, id int) error {
	return s.c.doJSON(ctx, "vendor.DeleteProduct", "DELETE", fmt.Sprintf("/vendor/products/%d", id), nil, nil)
}

// Orders fetches orders containing the vendor's products.
func (s *VendorService) Orders(ctx context.Context) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := s.c.doJSON(ctx, "vendor.Orders", "GET", "/vendor/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Dashboard fetches the vendor's sales summary.
func (s *VendorService) Dashboard(ctx context.Context) (*VendorDashboard, error) {
	var dash VendorDashboard
	if err := s.c.doJSON(ctx, "vendor.Dashboard", "GET", "/vendor/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
