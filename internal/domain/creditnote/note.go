package creditnote

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// backendDateLayout is the date format the backend expects.
const backendDateLayout = "2006-01-02"

// maxLotsInDescription caps how many lot numbers a line description lists.
const maxLotsInDescription = 3

// Line is an ERP-ready credit note line.
type Line struct {
	ProductID   int64
	Quantity    int
	UnitPrice   float64
	Discount    float64
	Description string
}

// Total computes price * quantity * (1 - discount/100).
func (l Line) Total() decimal.Decimal {
	price := decimal.NewFromFloat(l.UnitPrice)
	qty := decimal.NewFromInt(int64(l.Quantity))
	factor := decimal.NewFromInt(1).Sub(
		decimal.NewFromFloat(l.Discount).Div(decimal.NewFromInt(100)))
	return price.Mul(qty).Mul(factor)
}

// directive encodes the line as a nested create directive for the
// document-creation call.
func (l Line) directive() []any {
	return []any{0, 0, map[string]any{
		"product_id": l.ProductID,
		"quantity":   l.Quantity,
		"price_unit": l.UnitPrice,
		"discount":   l.Discount,
		"name":       l.Description,
	}}
}

// lineDescription summarizes the first lots of a line, with a truncation
// marker when more exist: "Damage - Lots: A, B, C...".
func lineDescription(lots []string) string {
	sorted := make([]string, len(lots))
	copy(sorted, lots)
	sort.Strings(sorted)

	shown := sorted
	marker := ""
	if len(sorted) > maxLotsInDescription {
		shown = sorted[:maxLotsInDescription]
		marker = "..."
	}
	return fmt.Sprintf("Damage - Lots: %s%s", strings.Join(shown, ", "), marker)
}

// formatDate renders a date for the backend.
func formatDate(t time.Time) string {
	return t.Format(backendDateLayout)
}
