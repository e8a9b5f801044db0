package creditnote

import (
	"time"

	"github.com/creditnote/backend/internal/domain/reconcile"
)

// GroupView is one reconciliation group as presented to the operator:
// a priced purchase-order line with the lots that resolved to it.
type GroupView struct {
	PurchaseOrder   string   `json:"purchase_order"`
	LineDescription string   `json:"line_description"`
	Vendor          string   `json:"vendor"`
	UnitPrice       float64  `json:"unit_price"`
	Discount        float64  `json:"discount"`
	Lots            []string `json:"lots"`
	Quantity        int      `json:"quantity"`
}

// DiagnosticView reports a lot that could not be reconciled.
type DiagnosticView struct {
	Reason        string `json:"reason"`
	Lot           string `json:"lot"`
	Picking       string `json:"picking,omitempty"`
	PurchaseOrder string `json:"purchase_order,omitempty"`
	Product       string `json:"product,omitempty"`
	Message       string `json:"message"`
}

// LookupResult is the outcome of a reconciliation lookup.
type LookupResult struct {
	CompanyID   int64            `json:"company_id"`
	Vendors     []string         `json:"vendors"`
	Groups      []GroupView      `json:"groups"`
	Diagnostics []DiagnosticView `json:"diagnostics"`
}

// BulkCreateRequest asks for one credit note per vendor covering the
// given lots. Zero dates and an empty reference fall back to the
// configured defaults.
type BulkCreateRequest struct {
	Lots      []string
	IssueDate time.Time
	DueDate   time.Time
	Reference string
	CreatedBy string
}

// VendorResult is the outcome of creating one vendor's credit note.
type VendorResult struct {
	Vendor       string `json:"vendor"`
	CreditNoteID int64  `json:"credit_note_id,omitempty"`
	LineCount    int    `json:"line_count"`
	LotCount     int    `json:"lot_count"`
	Total        string `json:"total"`
	Error        string `json:"error,omitempty"`
}

// BulkResult aggregates per-vendor outcomes of a bulk run. One vendor
// failing never rolls back another vendor's document.
type BulkResult struct {
	CompanyID   int64            `json:"company_id"`
	Created     int              `json:"created"`
	Failed      int              `json:"failed"`
	Vendors     []VendorResult   `json:"vendors"`
	Diagnostics []DiagnosticView `json:"diagnostics"`
}

// WorkingLine is one line held in an operator's working set.
type WorkingLine struct {
	PurchaseOrder string   `json:"purchase_order"`
	Description   string   `json:"description"`
	Lots          []string `json:"lots"`
	Quantity      int      `json:"quantity"`
	UnitPrice     float64  `json:"unit_price"`
	Discount      float64  `json:"discount"`
}

// WorkingSetView is an operator's current working set.
type WorkingSetView struct {
	Vendor string        `json:"vendor"`
	Lines  []WorkingLine `json:"lines"`
}

// SubmitInput carries the document header for a working-set submission.
type SubmitInput struct {
	IssueDate time.Time
	DueDate   time.Time
	Reference string
}

func newLookupResult(companyID int64, result *reconcile.Result) *LookupResult {
	out := &LookupResult{
		CompanyID:   companyID,
		Vendors:     result.Vendors(),
		Groups:      make([]GroupView, 0, len(result.Groups)),
		Diagnostics: diagnosticViews(result.Diagnostics),
	}
	for _, g := range result.Groups {
		out.Groups = append(out.Groups, GroupView{
			PurchaseOrder:   g.Key.PurchaseOrder,
			LineDescription: g.Key.LineDescription,
			Vendor:          g.Key.Vendor,
			UnitPrice:       g.UnitPrice,
			Discount:        g.Discount,
			Lots:            g.Lots(),
			Quantity:        g.LotCount(),
		})
	}
	return out
}

func diagnosticViews(diagnostics []reconcile.Diagnostic) []DiagnosticView {
	out := make([]DiagnosticView, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, DiagnosticView{
			Reason:        string(d.Reason),
			Lot:           d.Lot,
			Picking:       d.Picking,
			PurchaseOrder: d.PurchaseOrder,
			Product:       d.Product,
			Message:       d.Message(),
		})
	}
	return out
}
