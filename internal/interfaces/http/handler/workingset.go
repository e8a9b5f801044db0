package handler

import (
	"github.com/gin-gonic/gin"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/interfaces/http/middleware"
)

// WorkingSetHandler handles the manual flow: staging reconciliation
// groups line by line and submitting a single vendor credit note.
type WorkingSetHandler struct {
	BaseHandler
	workingSets *app.WorkingSetService
}

// NewWorkingSetHandler creates a new working set handler.
func NewWorkingSetHandler(workingSets *app.WorkingSetService) *WorkingSetHandler {
	return &WorkingSetHandler{workingSets: workingSets}
}

// Get returns the operator's current working set.
func (h *WorkingSetHandler) Get(c *gin.Context) {
	set, err := h.workingSets.Get(c.Request.Context(), middleware.GetOperator(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, set)
}

// AddLineRequest stages one reconciliation group in the working set.
type AddLineRequest struct {
	Vendor        string   `json:"vendor" binding:"required"`
	PurchaseOrder string   `json:"purchase_order" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Lots          []string `json:"lots" binding:"required,min=1"`
	Quantity      int      `json:"quantity"`
	UnitPrice     float64  `json:"unit_price"`
	Discount      float64  `json:"discount"`
}

// AddLine stages a line. The first line fixes the working set's vendor;
// a line for the same purchase order and description replaces it.
func (h *WorkingSetHandler) AddLine(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	set, err := h.workingSets.Add(c.Request.Context(), middleware.GetOperator(c), req.Vendor, app.WorkingLine{
		PurchaseOrder: req.PurchaseOrder,
		Description:   req.Description,
		Lots:          req.Lots,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Discount:      req.Discount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, set)
}

// AdjustQuantityRequest changes the quantity of a staged line.
type AdjustQuantityRequest struct {
	PurchaseOrder string `json:"purchase_order" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
}

// AdjustQuantity changes the quantity of a staged line.
func (h *WorkingSetHandler) AdjustQuantity(c *gin.Context) {
	var req AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	set, err := h.workingSets.AdjustQuantity(c.Request.Context(), middleware.GetOperator(c),
		req.PurchaseOrder, req.Description, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, set)
}

// RemoveLine removes a staged line identified by its purchase order and
// description, given as query parameters.
func (h *WorkingSetHandler) RemoveLine(c *gin.Context) {
	purchaseOrder := c.Query("purchase_order")
	description := c.Query("description")
	if purchaseOrder == "" || description == "" {
		h.BadRequest(c, "purchase_order and description are required")
		return
	}

	set, err := h.workingSets.Remove(c.Request.Context(), middleware.GetOperator(c), purchaseOrder, description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, set)
}

// Clear drops the operator's working set.
func (h *WorkingSetHandler) Clear(c *gin.Context) {
	if err := h.workingSets.Clear(c.Request.Context(), middleware.GetOperator(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SubmitRequest carries the document header for a submission. Dates use
// the YYYY-MM-DD layout; omitted values fall back to the defaults.
type SubmitRequest struct {
	IssueDate string `json:"issue_date" binding:"omitempty,isodate"`
	DueDate   string `json:"due_date" binding:"omitempty,isodate"`
	Reference string `json:"reference"`
}

// Submit creates one vendor credit note from the staged lines and, on
// success, clears the working set.
func (h *WorkingSetHandler) Submit(c *gin.Context) {
	var req SubmitRequest
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

	result, err := h.workingSets.Submit(c.Request.Context(), middleware.GetOperator(c), app.SubmitInput{
		IssueDate: issueDate,
		DueDate:   dueDate,
		Reference: req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RegisterRoutes registers working set routes.
func (h *WorkingSetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/working-set")
	{
		group.GET("", h.Get)
		group.DELETE("", h.Clear)
		group.POST("/lines", h.AddLine)
		group.PUT("/lines", h.AdjustQuantity)
		group.DELETE("/lines", h.RemoveLine)
		group.POST("/submit", h.Submit)
	}
}
