package docai

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// analyzeDocumentPrompt is the shared prompt used by all LLM providers for
// key-value extraction and classification of invoice documents
const analyzeDocumentPrompt = `You are a document understanding service analyzing a scanned invoice. Read every piece of text in the image and perform two tasks:

1. **Key-value extraction**: detect labeled fields such as "VendorName", "InvoiceId", "InvoiceDate", "InvoiceTotal", "Subtotal", "ShippingCost", "AmountDue", "BillingAddress", "ShippingAddress". Report each field with the exact text as printed on the document (keep currency symbols and the original date format) and a confidence score between 0 and 1. Report the line-item table, if any, under a single field named "Items".

2. **Classification**: classify the document (e.g. INVOICE, RECEIPT, PURCHASE_ORDER, OTHERS) and report up to 5 candidate types with confidence scores.

Return ONLY valid JSON in this exact format:
{
  "pages": [
    {
      "documentFields": [
        {"fieldLabel": {"name": "VendorName", "confidence": 0.98}, "fieldValue": {"text": "SuperStore"}},
        {"fieldLabel": {"name": "Items"}, "fieldValue": {"items": [
          {"fieldValue": {"items": [
            {"fieldLabel": {"name": "Description", "confidence": 0.95}, "fieldValue": {"text": "Stapler"}},
            {"fieldLabel": {"name": "Quantity", "confidence": 0.95}, "fieldValue": {"text": "2"}},
            {"fieldLabel": {"name": "Amount", "confidence": 0.95}, "fieldValue": {"text": "$10.00"}}
          ]}}
        ]}}
      ]
    }
  ],
  "detectedDocumentTypes": [
    {"documentType": "INVOICE", "confidence": 0.97}
  ]
}

Important:
- One entry in "pages" per page of the document, in page order
- Field values must be the literal text from the document, not interpretations
- Confidence scores must be numbers between 0 and 1
- If a field has no readable value, omit the "text" attribute rather than guessing
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// pdfToImage converts the first page of a PDF to a PNG image
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	// Render the first page (most invoices are single page)
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// prepareDocumentImage renders an uploaded document to PNG for the vision
// models. Uploads are PDF by contract; anything already rasterized is passed
// through untouched.
func prepareDocumentImage(data []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "image/png" {
		return data, nil
	}
	pngData, err := pdfToImage(data)
	if err != nil {
		return nil, fmt.Errorf("converting PDF to image: %w", err)
	}
	return pngData, nil
}
