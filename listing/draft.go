// Package listing builds vendor product submissions. A draft collected from
// text form input is encoded into exactly one of two payload shapes: typed
// JSON when no image is attached, multipart form data when one is. The two
// shapes are never mixed; the transport layer serializes whichever variant it
// is handed.
package listing

// Attachment is a binary image attached to a product draft.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductDraft is a vendor product being assembled from form input. All
// non-binary fields are the raw text values; numeric coercion happens at
// encode time so a typo surfaces as a validation error before any network
// call. The draft is submitted once and discarded; the server assigns
// identity.
type ProductDraft struct {
	Name            string
	CategoryID      string
	OriginalPrice   string
	DiscountedPrice string
	StockQuantity   string
	ExpiryDate      string

	// Optional fields, omitted from the payload entirely when blank.
	Brand       string
	Unit        string
	Description string

	// Optional binary image. Its presence alone selects the encoding.
	Image *Attachment
}
