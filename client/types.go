package client

import "github.com/surplusmarket/client-go/session"

// Credentials is the payload returned by register and login.
type Credentials struct {
	User        session.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// Product is the marketplace's product snapshot as returned by the API.
type Product struct {
	ID                 int     `json:"id"`
	VendorID           int     `json:"vendor_id"`
	VendorName         string  `json:"vendor_name"`
	CategoryID         int     `json:"category_id"`
	CategoryName       string  `json:"category_name"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	OriginalPrice      float64 `json:"original_price"`
	DiscountedPrice    float64 `json:"discounted_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	StockQuantity      int     `json:"stock_quantity"`
	ExpiryDate         string  `json:"expiry_date"`
	DaysToExpiry       int     `json:"days_to_expiry"`
	Brand              string  `json:"brand,omitempty"`
	Unit               string  `json:"unit,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`
}

// CartLine is one line of the authoritative cart: a product snapshot plus
// quantity. The server computes the subtotal.
type CartLine struct {
	ID       int      `json:"id"`
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
	Subtotal float64  `json:"subtotal"`
}

// Cart is the authoritative cart owned by the remote API. The client treats
// it as a transient read; it never computes Total itself.
type Cart struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
	Count int        `json:"count"`
}

// Category is a product category.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// ShippingAddress is the destination block of an order.
type ShippingAddress struct {
	Name         string `json:"shipping_name"`
	Phone        string `json:"shipping_phone"`
	AddressLine1 string `json:"shipping_address_line1"`
	AddressLine2 string `json:"shipping_address_line2,omitempty"`
	City         string `json:"shipping_city"`
	State        string `json:"shipping_state"`
	Pincode      string `json:"shipping_pincode"`
}

// Order is a placed order as returned by the API. Monetary fields are the
// server's authoritative computation.
type Order struct {
	ID             int         `json:"id"`
	OrderNumber    string      `json:"order_number"`
	Status         string      `json:"status"`
	TotalAmount    float64     `json:"total_amount"`
	ShippingAmount float64     `json:"shipping_amount"`
	TaxAmount      float64     `json:"tax_amount"`
	DiscountAmount float64     `json:"discount_amount"`
	FinalAmount    float64     `json:"final_amount"`
	PaymentMethod  string      `json:"payment_method"`
	PaymentStatus  string      `json:"payment_status"`
	Items          []OrderLine `json:"items"`
	CreatedAt      string      `json:"created_at"`
}

// OrderLine is one line of a placed order.
type OrderLine struct {
	ID         int     `json:"id"`
	ProductID  int     `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"price"`
	TotalPrice float64 `json:"total_price"`
}

// Address is a saved delivery address.
type Address struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	IsDefault    bool   `json:"is_default"`
}

// Review is a product review.
type Review struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// VendorDashboard is the vendor's sales summary.
type VendorDashboard struct {
	TotalProducts  int     `json:"total_products"`
	ActiveProducts int     `json:"active_products"`
	TotalOrders    int     `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
}
