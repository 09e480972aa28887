package docai

// Label identifies a detected field and how sure the provider is about it.
type Label struct {
	Name       string   `json:"name"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Value holds a detected field's content. Depending on the provider (and the
// provider SDK version) the scalar text arrives under either "text" or
// "value", and composite line-item collections under either "items" or
// "_items". Any of these may be absent.
type Value struct {
	Text     *string `json:"text,omitempty"`
	Value    *string `json:"value,omitempty"`
	Items    []Field `json:"items,omitempty"`
	AltItems []Field `json:"_items,omitempty"`
}

// ScalarText returns the scalar content of a value, preferring the "text"
// attribute over "value". A nil or empty value object yields nil.
func (v *Value) ScalarText() *string {
	if v == nil {
		return nil
	}
	if v.Text != nil {
		return v.Text
	}
	return v.Value
}

// LineItemNodes returns the nested item nodes of a composite value. Both
// attribute variants are treated uniformly; absent collections are nil.
func (v *Value) LineItemNodes() []Field {
	if v == nil {
		return nil
	}
	if len(v.Items) > 0 {
		return v.Items
	}
	return v.AltItems
}

// Field is one key-value extraction node. Label and value may each be absent.
type Field struct {
	FieldLabel *Label `json:"fieldLabel,omitempty"`
	FieldValue *Value `json:"fieldValue,omitempty"`
}

// Name returns the field's label name, or "" when the label is absent.
func (f *Field) Name() string {
	if f.FieldLabel == nil {
		return ""
	}
	return f.FieldLabel.Name
}

// Confidence returns the field's label confidence, defaulting to 0.0 when the
// label or its confidence is absent.
func (f *Field) Confidence() float64 {
	if f.FieldLabel == nil || f.FieldLabel.Confidence == nil {
		return 0.0
	}
	return *f.FieldLabel.Confidence
}

// Page is one document page with its detected fields. Pages without any field
// collection are valid and simply contribute nothing.
type Page struct {
	DocumentFields []Field `json:"documentFields,omitempty"`
}

// DetectedDocumentType is one classification result for the whole document.
type DetectedDocumentType struct {
	DocumentType string  `json:"documentType"`
	Confidence   float64 `json:"confidence"`
}

// Result is the raw analysis response returned by a document-understanding
// provider: ordered pages of field nodes plus document classification results.
type Result struct {
	Pages                 []Page                 `json:"pages"`
	DetectedDocumentTypes []DetectedDocumentType `json:"detectedDocumentTypes,omitempty"`
}

// Analyzer defines the interface for document analysis providers
type Analyzer interface {
	// AnalyzeDocument runs key-value extraction and classification on a
	// document and returns the raw field tree
	AnalyzeDocument(data []byte, contentType string) (*Result, error)
	// Close closes the analyzer and releases resources
	Close() error
}
