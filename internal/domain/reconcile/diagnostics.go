package reconcile

import "fmt"

// SkipReason classifies why a move line contributed to no group. Only
// the two lookup failures are surfaced; move lines dropped by the vendor
// exclusion filter or missing their picking/product references are
// treated as out of scope and produce no diagnostic.
type SkipReason string

const (
	// SkipPurchaseOrderNotFound means the picking's origin named a
	// purchase order that does not exist.
	SkipPurchaseOrderNotFound SkipReason = "purchase_order_not_found"
	// SkipNoMatchingLine means no purchase-order line description
	// matched the product's SKU or name.
	SkipNoMatchingLine SkipReason = "no_matching_line"
)

// Diagnostic describes one skipped move line.
type Diagnostic struct {
	Reason        SkipReason `json:"reason"`
	Lot           string     `json:"lot"`
	Picking       string     `json:"picking,omitempty"`
	PurchaseOrder string     `json:"purchase_order,omitempty"`
	Product       string     `json:"product,omitempty"`
}

// Message renders the diagnostic as a user-facing notice.
func (d Diagnostic) Message() string {
	switch d.Reason {
	case SkipPurchaseOrderNotFound:
		return fmt.Sprintf("PO %q not found for picking %s", d.PurchaseOrder, d.Picking)
	case SkipNoMatchingLine:
		return fmt.Sprintf("no matching PO line found for product %q (lot: %s)", d.Product, d.Lot)
	default:
		return fmt.Sprintf("lot %s skipped", d.Lot)
	}
}
