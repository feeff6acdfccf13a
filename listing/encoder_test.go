package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraft() ProductDraft {
	return ProductDraft{
		Name:            "Organic Bananas 1kg",
		CategoryID:      "3",
		OriginalPrice:   "100",
		DiscountedPrice: "80",
		StockQuantity:   "5",
		ExpiryDate:      "2026-09-10",
	}
}

func TestEncodeStructured(t *testing.T) {
	enc, err := Encode(testDraft())
	require.NoError(t, err)

	structured, ok := enc.(Structured)
	require.True(t, ok, "draft without image must encode as Structured")
	assert.Equal(t, "json", enc.ContentKind())

	// Numeric fields are real numbers coerced from text input.
	assert.Equal(t, 3, structured.Payload.CategoryID)
	assert.Equal(t, 100.0, structured.Payload.OriginalPrice)
	assert.Equal(t, 80.0, structured.Payload.DiscountedPrice)
	assert.Equal(t, 5, structured.Payload.StockQuantity)
	assert.Equal(t, "Organic Bananas 1kg", structured.Payload.Name)
	// Blank optionals rely on omitempty; they stay zero-valued here.
	assert.Empty(t, structured.Payload.Brand)
	assert.Empty(t, structured.Payload.Unit)
}

func TestEncodeMultipart(t *testing.T) {
	draft := testDraft()
	draft.Brand = "FarmFresh"
	draft.Image = &Attachment{
		Filename:    "bananas.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
	}

	enc, err := Encode(draft)
	require.NoError(t, err)

	mp, ok := enc.(Multipart)
	require.True(t, ok, "draft with image must encode as Multipart")
	assert.Equal(t, "multipart", enc.ContentKind())
	assert.Equal(t, "bananas.jpg", mp.Attachment.Filename)

	fields := map[string]string{}
	for _, f := range mp.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "3", fields["category_id"])
	assert.Equal(t, "100", fields["original_price"])
	assert.Equal(t, "80", fields["discounted_price"])
	assert.Equal(t, "5", fields["stock_quantity"])
	assert.Equal(t, "FarmFresh", fields["brand"])
	// Empty optionals are not sent at all.
	_, present := fields["unit"]
	assert.False(t, present)
	_, present = fields["description"]
	assert.False(t, present)
}

func TestEncodeMissingCategory(t *testing.T) {
	draft := testDraft()
	draft.CategoryID = "  "

	_, err := Encode(draft)
	assert.ErrorIs(t, err, ErrCategoryRequired)

	// Same failure with an image: validation precedes encoding choice.
	draft.Image = &Attachment{Filename: "x.png", ContentType: "image/png", Data: []byte{1}}
	_, err = Encode(draft)
	assert.ErrorIs(t, err, ErrCategoryRequired)
}

func TestEncodeBadNumerics(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductDraft)
	}{
		{"category", func(d *ProductDraft) { d.CategoryID = "fruit" }},
		{"original price", func(d *ProductDraft) { d.OriginalPrice = "hundred" }},
		{"discounted price", func(d *ProductDraft) { d.DiscountedPrice = "" }},
		{"stock", func(d *ProductDraft) { d.StockQuantity = "5.5" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := testDraft()
			tt.mutate(&draft)
			_, err := Encode(draft)
			assert.ErrorIs(t, err, ErrInvalidNumber)
		})
	}
}

// The permissive pricing behavior is deliberate: the server owns the
// discounted <= original rule.
func TestEncodeAllowsDiscountAboveOriginal(t *testing.T) {
	draft := testDraft()
	draft.OriginalPrice = "80"
	draft.DiscountedPrice = "100"

	enc, err := Encode(draft)
	require.NoError(t, err)
	assert.Equal(t, 100.0, enc.(Structured).Payload.DiscountedPrice)
}
