package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors raised before any network call is made.
var (
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidNumber    = errors.New("invalid numeric field")
)

// ProductPayload is the typed JSON shape for a submission without an image.
// Numeric fields are real numbers, not strings; blank optionals are omitted.
//
// The server, not the client, enforces discounted <= original. The client
// deliberately stays permissive here so server-side pricing rules can evolve
// without a lockstep client release.
type ProductPayload struct {
	Name            string  `json:"name"`
	CategoryID      int     `json:"category_id"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	StockQuantity   int     `json:"stock_quantity"`
	ExpiryDate      string  `json:"expiry_date"`
	Brand           string  `json:"brand,omitempty"`
	Unit            string  `json:"unit,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// FormField is one text part of a multipart submission.
type FormField struct {
	Name  string
	Value string
}

// Encoded is the tagged result of encoding a draft: either Structured or
// Multipart, never both.
type Encoded interface {
	// ContentKind names the wire shape; used by the transport to pick a
	// serializer and by logs.
	ContentKind() string
}

// Structured is a typed JSON submission.
type Structured struct {
	Payload ProductPayload
}

func (Structured) ContentKind() string { return "json" }

// Multipart is a form-data submission carrying the binary attachment plus
// every non-empty text field.
type Multipart struct {
	Fields     []FormField
	Attachment Attachment
}

func (Multipart) ContentKind() string { return "multipart" }

// Encode chooses and builds the request encoding for a draft. The category
// must be present; everything else is validated only as far as the chosen
// shape requires (multipart keeps raw text, JSON coerces numerics).
func Encode(draft ProductDraft) (Encoded, error) {
	if strings.TrimSpace(draft.CategoryID) == "" {
		return nil, ErrCategoryRequired
	}

	if draft.Image != nil {
		return encodeMultipart(draft), nil
	}
	return encodeStructured(draft)
}

func encodeMultipart(draft ProductDraft) Multipart {
	fields := []FormField{
		{"name", draft.Name},
		{"category_id", draft.CategoryID},
		{"original_price", draft.OriginalPrice},
		{"discounted_price", draft.DiscountedPrice},
		{"stock_quantity", draft.StockQuantity},
		{"expiry_date", draft.ExpiryDate},
		{"brand", draft.Brand},
		{"unit", draft.Unit},
		{"description", draft.Description},
	}

	kept := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			kept = append(kept, f)
		}
	}
	return Multipart{Fields: kept, Attachment: *draft.Image}
}

func encodeStructured(draft ProductDraft) (Encoded, error) {
	categoryID, err := strconv.Atoi(strings.TrimSpace(draft.CategoryID))
	if err != nil {
		return nil, fmt.Errorf("%w: category_id %q", ErrInvalidNumber, draft.CategoryID)
	}
	originalPrice, err := strconv.ParseFloat(strings.TrimSpace(draft.OriginalPrice), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: original_price %q", ErrInvalidNumber, draft.OriginalPrice)
	}
	discountedPrice, err := strconv.ParseFloat(strings.TrimSpace(draft.DiscountedPrice), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: discounted_price %q", ErrInvalidNumber, draft.DiscountedPrice)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(draft.StockQuantity))
	if err != nil {
		return nil, fmt.Errorf("%w: stock_quantity %q", ErrInvalidNumber, draft.StockQuantity)
	}

	return Structured{Payload: ProductPayload{
		Name:            draft.Name,
		CategoryID:      categoryID,
		OriginalPrice:   originalPrice,
		DiscountedPrice: discountedPrice,
		StockQuantity:   stock,
		ExpiryDate:      draft.ExpiryDate,
		Brand:           draft.Brand,
		Unit:            draft.Unit,
		Description:     draft.Description,
	}}, nil
}
