package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/zombor/invoice-tracker/internal/docai"
)

var (
	// ErrInvalidFileType is returned when the upload is neither declared
	// as PDF nor named with a .pdf suffix
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrProviderUnavailable is returned when the document analysis
	// provider call fails for any reason
	ErrProviderUnavailable = errors.New("analysis service unavailable")

	// ErrLowConfidence is returned when the document classification
	// confidence falls below the acceptance threshold
	ErrLowConfidence = errors.New("document classification confidence too low")

	// ErrInvoiceNotFound is returned when no invoice exists for an ID
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// unknownVendorName is reported when a vendor lookup matches nothing
const unknownVendorName = "Unknown Vendor"

// vendorNameField is the extracted field the vendor lookup is keyed on
const vendorNameField = "VendorName"

// IDGenerator generates unique IDs for invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice operations
type Service struct {
	db          DB
	analyzer    docai.Analyzer
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, analyzer docai.Analyzer, storage Storage) *Service {
	return &Service{
		db:          db,
		analyzer:    analyzer,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, analyzer docai.Analyzer, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		analyzer:    analyzer,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// isPDFUpload reports whether an upload is accepted as a PDF: either the
// declared content type or the filename suffix is enough
func isPDFUpload(filename string, contentType string) bool {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "invoice"
	}

	return base + ext
}

// ProcessInvoice validates an uploaded document, runs it through the
// analysis provider, normalizes the extraction result and persists it.
// A document rejected by the classification policy is fully normalized but
// never stored or returned.
func (s *Service) ProcessInvoice(filename string, data []byte, contentType string) (*Invoice, error) {
	if !isPDFUpload(filename, contentType) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrInvalidFileType, filename, contentType)
	}

	result, err := s.analyzer.AnalyzeDocument(data, contentType)
	if err != nil {
		slog.Error("Failed to analyze document",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	extraction := docai.Normalize(result)
	if !extraction.Accepted {
		slog.Warn("Rejecting low-confidence document",
			"filename", filename,
			"confidence", *extraction.DocumentConfidence,
		)
		return nil, ErrLowConfidence
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	// Archive the original document under a cleaned-up name
	cleanFilename := sanitizeFilename(filename)
	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	invoice := &Invoice{
		ID:             id,
		VendorName:     extractedVendorName(extraction.Fields),
		Confidence:     extraction.DocumentConfidence,
		Data:           extraction.Fields,
		DataConfidence: extraction.Confidences,
		Filename:       savedPath,
		ContentType:    contentType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.db.SaveInvoice(invoice); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	return invoice, nil
}

// extractedVendorName pulls the vendor name out of the normalized fields
func extractedVendorName(fields *docai.FieldMap) string {
	value, ok := fields.Get(vendorNameField)
	if !ok {
		return ""
	}
	name, _ := value.(string)
	return name
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	return invoice, nil
}

// GetInvoicesByVendor returns all invoices stored for a vendor name. When
// nothing matches the vendor name falls back to a fixed placeholder while
// still reporting the zero count and an empty list.
func (s *Service) GetInvoicesByVendor(vendorName string) (*VendorInvoices, error) {
	invoices, err := s.db.GetInvoicesByVendor(vendorName)
	if err != nil {
		return nil, fmt.Errorf("getting invoices by vendor: %w", err)
	}

	name := vendorName
	if len(invoices) == 0 {
		name = unknownVendorName
	}

	return &VendorInvoices{
		VendorName:    name,
		TotalInvoices: len(invoices),
		Invoices:      invoices,
	}, nil
}

// ListInvoices returns all invoices
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice and its archived file
func (s *Service) DeleteInvoice(id string) error {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}

	if err := s.storage.Delete(invoice.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", invoice.Filename, "error", err)
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// GetInvoiceFile retrieves the archived document for an invoice
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}

	data, err := s.storage.Get(invoice.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}

	return data, invoice.ContentType, nil
}
