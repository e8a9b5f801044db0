package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/interfaces/http/middleware"
)

const dateLayout = "2006-01-02"

// CreditNoteHandler handles bulk credit note creation.
type CreditNoteHandler struct {
	BaseHandler
	bulk *app.BulkService
}

// NewCreditNoteHandler creates a new credit note handler.
func NewCreditNoteHandler(bulk *app.BulkService) *CreditNoteHandler {
	return &CreditNoteHandler{bulk: bulk}
}

// BulkCreateRequest asks for one credit note per vendor covering the
// given lots. Dates use the YYYY-MM-DD layout; omitted dates and an
// empty reference fall back to the configured defaults.
type BulkCreateRequest struct {
	Lots      []string `json:"lots" binding:"required,min=1"`
	IssueDate string   `json:"issue_date" binding:"omitempty,isodate"`
	DueDate   string   `json:"due_date" binding:"omitempty,isodate"`
	Reference string   `json:"reference"`
}

// CreateBulk reconciles the lots, groups them by vendor, and creates
// one vendor credit note per vendor. Vendors fail independently.
func (h *CreditNoteHandler) CreateBulk(c *gin.Context) {
	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		h.BadRequest(c, "Invalid issue_date, expected YYYY-MM-DD")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
		return
	}

	result, err := h.bulk.CreateBulk(c.Request.Context(), app.BulkCreateRequest{
		Lots:      req.Lots,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Reference: req.Reference,
		CreatedBy: middleware.GetOperator(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// RegisterRoutes registers credit note routes.
func (h *CreditNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/credit-notes")
	{
		group.POST("/bulk", h.CreateBulk)
	}
}

// parseDate parses an optional YYYY-MM-DD date; empty means zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
