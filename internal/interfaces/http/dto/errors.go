package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUpstream is used when the ERP backend fails or is unreachable
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeInvalidCredentials is used when login credentials are wrong
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeNoLots is used when an upload or request contains no lot numbers
	ErrCodeNoLots = "ERR_NO_LOTS"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeCompanyNotFound is used when the configured company does not exist upstream
	ErrCodeCompanyNotFound = "ERR_COMPANY_NOT_FOUND"
)

// Business rule error codes
const (
	// ErrCodeNoMoveLines means none of the given lots matched a stock move line
	ErrCodeNoMoveLines = "ERR_NO_MOVE_LINES"
	// ErrCodeVendorNotFound means the vendor partner does not exist upstream
	ErrCodeVendorNotFound = "ERR_VENDOR_NOT_FOUND"
	// ErrCodeJournalNotFound means the purchase journal could not be located
	ErrCodeJournalNotFound = "ERR_JOURNAL_NOT_FOUND"
	// ErrCodeNoValidLines means every candidate line was dropped during resolution
	ErrCodeNoValidLines = "ERR_NO_VALID_LINES"
	// ErrCodeQuantityRange is used when a line quantity is out of range
	ErrCodeQuantityRange = "ERR_QUANTITY_RANGE"
	// ErrCodeVendorMismatch rejects mixing vendors within one working set
	ErrCodeVendorMismatch = "ERR_VENDOR_MISMATCH"
	// ErrCodeEmptyWorkingSet means the working set has no staged lines
	ErrCodeEmptyWorkingSet = "ERR_EMPTY_WORKING_SET"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeUpstream: http.StatusBadGateway,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeNoLots:          http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeCompanyNotFound: http.StatusNotFound,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeNoMoveLines:     http.StatusUnprocessableEntity,
	ErrCodeVendorNotFound:  http.StatusUnprocessableEntity,
	ErrCodeJournalNotFound: http.StatusUnprocessableEntity,
	ErrCodeNoValidLines:    http.StatusUnprocessableEntity,
	ErrCodeQuantityRange:   http.StatusUnprocessableEntity,
	ErrCodeEmptyWorkingSet: http.StatusUnprocessableEntity,
	ErrCodeVendorMismatch:  http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
