package docai

// itemsFieldName is the composite field holding the invoice line items
const itemsFieldName = "Items"

// documentConfidenceThreshold is the minimum classification confidence for a
// document to be accepted
const documentConfidenceThreshold = 0.90

// LineItem is one reconstructed invoice row: whatever sub-fields the provider
// returned, with numeric coercion applied to the known monetary columns.
type LineItem map[string]any

// Extraction is the normalized form of a raw analysis result
type Extraction struct {
	// Fields maps field name to normalized value (string, float64 or
	// []LineItem), keyed in the order the provider reported the fields
	Fields *FieldMap
	// Confidences maps field name to confidence score. The composite
	// "Items" field carries no aggregate confidence and is excluded.
	Confidences *FieldMap
	// DocumentConfidence is the confidence of the last detected document
	// type, or nil when the document was not classified at all
	DocumentConfidence *float64
	// Accepted is false when the document classification confidence fell
	// below the acceptance threshold
	Accepted bool
}

// Normalize flattens a raw analysis result into a stable output shape. It is
// a pure function over the tree: all working collections are allocated fresh
// per call and identical input produces identical output.
func Normalize(result *Result) *Extraction {
	extraction := &Extraction{
		Fields:      NewFieldMap(),
		Confidences: NewFieldMap(),
		Accepted:    true,
	}
	if result == nil {
		return extraction
	}

	for _, page := range result.Pages {
		if page.DocumentFields == nil {
			continue
		}
		for i := range page.DocumentFields {
			field := &page.DocumentFields[i]
			name := field.Name()

			if name == itemsFieldName {
				extraction.Fields.Set(name, reconstructLineItems(field.FieldValue))
				continue
			}

			value := coerceField(name, field.FieldValue.ScalarText())
			extraction.Fields.Set(name, value)
			extraction.Confidences.Set(name, field.Confidence())
		}
	}

	extraction.DocumentConfidence, extraction.Accepted = evaluateClassification(result.DetectedDocumentTypes)
	return extraction
}

// reconstructLineItems rebuilds the ordered line-item list from a composite
// field value. Every item node yields exactly one LineItem, even when all of
// its columns are null; the result fully replaces any earlier value.
func reconstructLineItems(value *Value) []LineItem {
	items := make([]LineItem, 0)
	for _, itemNode := range value.LineItemNodes() {
		item := make(LineItem)
		subFields := itemNode.FieldValue.LineItemNodes()
		for i := range subFields {
			sub := &subFields[i]
			key := sub.Name()
			raw := sub.FieldValue.ScalarText()
			if lineItemNumericKeys[key] {
				item[key] = coerceCurrency(raw)
				continue
			}
			if raw == nil {
				item[key] = nil
			} else {
				item[key] = *raw
			}
		}
		items = append(items, item)
	}
	return items
}

// evaluateClassification applies the document-acceptance policy. The
// effective confidence is the confidence of the last detected document type;
// an unclassified document has no effective confidence and is not rejected.
func evaluateClassification(types []DetectedDocumentType) (*float64, bool) {
	if len(types) == 0 {
		return nil, true
	}
	var confidence float64
	for _, t := range types {
		confidence = t.Confidence
	}
	return &confidence, confidence >= documentConfidenceThreshold
}
