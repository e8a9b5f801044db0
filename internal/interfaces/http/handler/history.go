package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creditnote/backend/internal/domain/history"
)

// HistoryHandler serves the local audit trail of created credit notes.
type HistoryHandler struct {
	BaseHandler
	submissions history.Repository
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(submissions history.Repository) *HistoryHandler {
	return &HistoryHandler{submissions: submissions}
}

// SubmissionResponse is one recorded credit note submission.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	CreditNoteID int64     `json:"credit_note_id"`
	Vendor       string    `json:"vendor"`
	CompanyID    int64     `json:"company_id"`
	IssueDate    string    `json:"issue_date"`
	DueDate      string    `json:"due_date"`
	Reference    string    `json:"reference"`
	LineCount    int       `json:"line_count"`
	LotCount     int       `json:"lot_count"`
	TotalAmount  string    `json:"total_amount"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// List returns recent submissions, optionally filtered by vendor.
func (h *HistoryHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			h.BadRequest(c, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	var (
		submissions []history.Submission
		err         error
	)
	if vendor := c.Query("vendor"); vendor != "" {
		submissions, err = h.submissions.FindByVendor(c.Request.Context(), vendor, limit)
	} else {
		submissions, err = h.submissions.FindRecent(c.Request.Context(), limit)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]SubmissionResponse, len(submissions))
	for i, s := range submissions {
		out[i] = SubmissionResponse{
			ID:           s.ID.String(),
			CreditNoteID: s.CreditNoteID,
			Vendor:       s.Vendor,
			CompanyID:    s.CompanyID,
			IssueDate:    s.IssueDate.Format(dateLayout),
			DueDate:      s.DueDate.Format(dateLayout),
			Reference:    s.Reference,
			LineCount:    s.LineCount,
			LotCount:     s.LotCount,
			TotalAmount:  s.TotalAmount.StringFixed(2),
			CreatedBy:    s.CreatedBy,
			CreatedAt:    s.CreatedAt,
		}
	}

	h.SuccessWithMeta(c, out, len(out), limit)
}

// RegisterRoutes registers history routes.
func (h *HistoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/history")
	{
		group.GET("", h.List)
	}
}
