package docai

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// invoiceDateField is the only field that receives date coercion
const invoiceDateField = "InvoiceDate"

// currencyFields are the top-level monetary fields that receive currency
// coercion. Line items use lineItemNumericKeys instead.
var currencyFields = map[string]bool{
	"InvoiceTotal": true,
	"Subtotal":     true,
	"ShippingCost": true,
	"Amount":       true,
	"UnitPrice":    true,
	"AmountDue":    true,
}

// lineItemNumericKeys are the line-item columns that receive currency coercion
var lineItemNumericKeys = map[string]bool{
	"Quantity":  true,
	"UnitPrice": true,
	"Amount":    true,
}

// providerDateLayout matches dates like "Mar 06 2012"
const providerDateLayout = "Jan 02 2006"

// coerceDate converts a provider date string to an ISO-8601 timestamp at
// midnight UTC, e.g. "Mar 06 2012" -> "2012-03-06T00:00:00+00:00". Anything
// that does not parse is returned unchanged; a nil input becomes "".
func coerceDate(s *string) string {
	if s == nil {
		return ""
	}
	t, err := time.Parse(providerDateLayout, strings.TrimSpace(*s))
	if err != nil {
		return *s
	}
	return t.Format("2006-01-02") + "T00:00:00+00:00"
}

// coerceCurrency converts a monetary string to a float64, stripping currency
// symbols and thousands separators first. An empty or nil input yields ""
// (absence is distinct from zero); anything that still does not parse is
// returned unchanged. Coercion never fails outward.
func coerceCurrency(s *string) any {
	if s == nil {
		return ""
	}
	cleaned := strings.TrimSpace(*s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return ""
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return *s
	}
	f, _ := d.Float64()
	return f
}

// coerceField applies the field-name driven coercion for top-level fields
func coerceField(name string, value *string) any {
	switch {
	case name == invoiceDateField:
		return coerceDate(value)
	case currencyFields[name]:
		return coerceCurrency(value)
	case value == nil:
		return nil
	default:
		return *value
	}
}
