package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/application/lotimport"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/erp"
	"github.com/creditnote/backend/internal/domain/reconcile"
	"github.com/creditnote/backend/internal/infrastructure/auth"
	"github.com/creditnote/backend/internal/interfaces/http/dto"
	"github.com/creditnote/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with list metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, count, limit int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, count, limit))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// errorCodes maps sentinel errors to API error codes. The first match
// in order wins, so more specific sentinels come before the broad
// gateway ones.
var errorCodes = []struct {
	err  error
	code string
}{
	{lotimport.ErrNoLots, dto.ErrCodeNoLots},
	{reconcile.ErrNoMoveLines, dto.ErrCodeNoMoveLines},
	{creditnote.ErrVendorNotFound, dto.ErrCodeVendorNotFound},
	{creditnote.ErrJournalNotFound, dto.ErrCodeJournalNotFound},
	{creditnote.ErrNoValidLines, dto.ErrCodeNoValidLines},
	{creditnote.ErrQuantityExceedsLots, dto.ErrCodeQuantityRange},
	{creditnote.ErrQuantityNotPositive, dto.ErrCodeQuantityRange},
	{app.ErrCompanyNotFound, dto.ErrCodeCompanyNotFound},
	{app.ErrEmptyWorkingSet, dto.ErrCodeEmptyWorkingSet},
	{app.ErrVendorMismatch, dto.ErrCodeVendorMismatch},
	{app.ErrLineNotFound, dto.ErrCodeNotFound},
	{auth.ErrInvalidCredentials, dto.ErrCodeInvalidCredentials},
	{erp.ErrAuthFailed, dto.ErrCodeUpstream},
	{erp.ErrUnavailable, dto.ErrCodeUpstream},
	{erp.ErrRequestFailed, dto.ErrCodeUpstream},
	{erp.ErrInvalidResponse, dto.ErrCodeUpstream},
}

// HandleError converts domain and application errors to HTTP responses.
// Unknown errors become a generic 500 without leaking internals.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			h.ErrorWithCode(c, m.code, m.err.Error())
			return
		}
	}

	h.InternalError(c, "An unexpected error occurred")
}
