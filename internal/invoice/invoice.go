package invoice

import (
	"time"

	"github.com/zombor/invoice-tracker/internal/docai"
)

// Invoice represents a processed invoice with its extraction result
type Invoice struct {
	ID string `json:"id"`
	// VendorName is denormalized from the extracted fields for lookup
	VendorName string `json:"vendor_name"`
	// Confidence is the document classification confidence, nil when the
	// provider returned no classification signal
	Confidence *float64 `json:"confidence"`
	// Data maps field name to normalized value, in extraction order
	Data *docai.FieldMap `json:"data"`
	// DataConfidence maps field name to per-field confidence score
	DataConfidence *docai.FieldMap `json:"dataConfidence"`
	Filename       string          `json:"filename"`
	ContentType    string          `json:"content_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// VendorInvoices is the result of a lookup-by-vendor operation
type VendorInvoices struct {
	VendorName    string     `json:"VendorName"`
	TotalInvoices int        `json:"TotalInvoices"`
	Invoices      []*Invoice `json:"invoices"`
}
