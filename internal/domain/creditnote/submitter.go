package creditnote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/domain/erp"
)

var (
	// ErrVendorNotFound means the vendor name matched no partner record.
	ErrVendorNotFound = errors.New("creditnote: vendor not found")
	// ErrJournalNotFound means no purchase journal matched the configured name.
	ErrJournalNotFound = errors.New("creditnote: vendor bills journal not found")
	// ErrNoValidLines means there is nothing to put on the document.
	ErrNoValidLines = errors.New("creditnote: no valid lines")
)

// moveTypeVendorRefund is the document type of a vendor credit note.
const moveTypeVendorRefund = "in_refund"

// SubmitRequest describes one credit note to create.
type SubmitRequest struct {
	VendorName string
	IssueDate  time.Time
	DueDate    time.Time
	Reference  string
	CompanyID  int64
	Lines      []Line
}

// Submitter issues the document-creation call. Each resolution step is a
// precondition for the next; a failed step aborts before any write, and
// the single create call is the only mutating operation. Submissions are
// never retried here; re-invoking with the same inputs is the caller's
// decision.
type Submitter struct {
	gateway     erp.Gateway
	journalName string
	log         *zap.Logger
}

// NewSubmitter creates a submitter. journalName is matched approximately
// ("ilike") against purchase journals, typically "Vendor Bills".
func NewSubmitter(gateway erp.Gateway, journalName string, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{
		gateway:     gateway,
		journalName: journalName,
		log:         log.Named("creditnote"),
	}
}

// Submit creates the credit note and returns its backend id.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (int64, error) {
	if len(req.Lines) == 0 {
		return 0, ErrNoValidLines
	}

	vendorIDs, err := s.gateway.Search(ctx, erp.ModelResPartner,
		erp.Where(erp.Eq("name", req.VendorName)).CompanyOrGlobal(req.CompanyID),
		&erp.Options{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("creditnote: vendor lookup: %w", err)
	}
	if len(vendorIDs) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrVendorNotFound, req.VendorName)
	}

	journalIDs, err := s.gateway.Search(ctx, erp.ModelAccountJournal,
		erp.Where(
			erp.Eq("type", "purchase"),
			erp.ILike("name", s.journalName),
			erp.Eq("company_id", req.CompanyID),
		),
		&erp.Options{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("creditnote: journal lookup: %w", err)
	}
	if len(journalIDs) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrJournalNotFound, s.journalName)
	}

	directives := make([]any, 0, len(req.Lines))
	for _, line := range req.Lines {
		directives = append(directives, line.directive())
	}

	id, err := s.gateway.Create(ctx, erp.ModelAccountMove, map[string]any{
		"move_type":        moveTypeVendorRefund,
		"partner_id":       vendorIDs[0],
		"invoice_date":     formatDate(req.IssueDate),
		"invoice_date_due": formatDate(req.DueDate),
		"journal_id":       journalIDs[0],
		"ref":              req.Reference,
		"invoice_line_ids": directives,
		"company_id":       req.CompanyID,
	})
	if err != nil {
		return 0, fmt.Errorf("creditnote: create: %w", err)
	}

	s.log.Info("credit note created",
		zap.Int64("credit_note_id", id),
		zap.String("vendor", req.VendorName),
		zap.Int("lines", len(req.Lines)))
	return id, nil
}
