package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Submission records one credit note created in the backend: who asked
// for it, when, and how much it covered. The backend owns the document
// itself; this is a local, write-once audit trail of what was issued.
type Submission struct {
	ID           uuid.UUID
	CreditNoteID int64
	Vendor       string
	CompanyID    int64
	IssueDate    time.Time
	DueDate      time.Time
	Reference    string
	LineCount    int
	LotCount     int
	TotalAmount  decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
}

// NewSubmission creates a submission record for a freshly created note.
func NewSubmission(creditNoteID int64, vendor string, companyID int64, issueDate, dueDate time.Time, reference string, lineCount, lotCount int, total decimal.Decimal, createdBy string) *Submission {
	return &Submission{
		ID:           uuid.New(),
		CreditNoteID: creditNoteID,
		Vendor:       vendor,
		CompanyID:    companyID,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Reference:    reference,
		LineCount:    lineCount,
		LotCount:     lotCount,
		TotalAmount:  total,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
}

// Repository persists submissions.
type Repository interface {
	Save(ctx context.Context, submission *Submission) error
	FindRecent(ctx context.Context, limit int) ([]Submission, error)
	FindByVendor(ctx context.Context, vendor string, limit int) ([]Submission, error)
}
