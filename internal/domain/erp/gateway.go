package erp

import (
	"context"
	"errors"
)

var (
	// ErrAuthFailed indicates the backend rejected the configured credentials
	ErrAuthFailed = errors.New("erp: authentication failed")
	// ErrUnavailable indicates the backend could not be reached
	ErrUnavailable = errors.New("erp: backend unavailable")
	// ErrRequestFailed indicates the backend reported a fault for the call
	ErrRequestFailed = errors.New("erp: request failed")
	// ErrInvalidResponse indicates the backend returned an unparseable payload
	ErrInvalidResponse = errors.New("erp: invalid response")
)

// Operation names understood by the object endpoint.
const (
	ModelStockMoveLine     = "stock.move.line"
	ModelStockPicking      = "stock.picking"
	ModelProductProduct    = "product.product"
	ModelPurchaseOrder     = "purchase.order"
	ModelPurchaseOrderLine = "purchase.order.line"
	ModelResPartner        = "res.partner"
	ModelResCompany        = "res.company"
	ModelAccountJournal    = "account.journal"
	ModelAccountMove       = "account.move"
)

// Options carries the optional keyword arguments of a gateway call.
type Options struct {
	Fields []string
	Limit  int
}

// Gateway is the object-RPC boundary to the ERP backend. Implementations
// are synchronous and stateless per call; the session identifier obtained
// from Authenticate is carried by the implementation, never by callers.
// The backend is authoritative: no result is cached across calls.
type Gateway interface {
	// Authenticate resolves the configured credentials to a backend user id.
	Authenticate(ctx context.Context) (int64, error)

	// Search returns the ids of records matching the domain filter.
	Search(ctx context.Context, model string, domain Domain, opts *Options) ([]int64, error)

	// Read returns the requested fields for the given record ids.
	Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error)

	// SearchRead combines Search and Read in a single round trip.
	SearchRead(ctx context.Context, model string, domain Domain, opts *Options) ([]Record, error)

	// Create inserts a record and returns its id.
	Create(ctx context.Context, model string, values map[string]any) (int64, error)
}
