package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/application/lotimport"
	"github.com/creditnote/backend/internal/interfaces/http/dto"
)

// LotHandler handles lot number intake and reconciliation lookups.
type LotHandler struct {
	BaseHandler
	bulk *app.BulkService
}

// NewLotHandler creates a new lot handler.
func NewLotHandler(bulk *app.BulkService) *LotHandler {
	return &LotHandler{bulk: bulk}
}

// ParseResponse carries the lot numbers extracted from an upload.
type ParseResponse struct {
	Lots  []string `json:"lots"`
	Count int      `json:"count"`
}

// Parse extracts lot numbers from an uploaded file. Spreadsheets and
// CSV files are read from their first column; anything else is treated
// as plain text with one lot per line or comma-separated.
func (h *LotHandler) Parse(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	lots, err := parseLotFile(fileHeader)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ParseResponse{Lots: lots, Count: len(lots)})
}

// LookupRequest carries lot numbers for reconciliation, either as a
// list or as raw text pasted by the operator.
type LookupRequest struct {
	Lots []string `json:"lots"`
	Text string   `json:"text"`
}

// Lookup reconciles the given lots against purchase order lines and
// returns the priced groups and per-lot diagnostics.
func (h *LotHandler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lots := req.Lots
	if len(lots) == 0 && req.Text != "" {
		parsed, err := lotimport.ParseList(req.Text)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		lots = parsed
	}
	if len(lots) == 0 {
		h.ErrorWithCode(c, dto.ErrCodeNoLots, "No lot numbers given")
		return
	}

	result, err := h.bulk.Lookup(c.Request.Context(), lots)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers lot routes.
func (h *LotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/lots")
	{
		group.POST("/parse", h.Parse)
		group.POST("/lookup", h.Lookup)
	}
}

func parseLotFile(fileHeader *multipart.FileHeader) ([]string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return lotimport.ParseFile(fileHeader.Filename, file)
}
