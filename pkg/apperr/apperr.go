package apperr

import "net/http"

// Stable error codes returned to API clients. Clients are expected to
// branch on these, never on message text.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeProductNotFound  = "PRODUCT_NOT_FOUND"
	CodeAuctionNotFound  = "AUCTION_NOT_FOUND"
	CodeContractNotFound = "CONTRACT_NOT_FOUND"
	CodeCartNotFound     = "CART_NOT_FOUND"

	CodeProductAlreadyInAuction = "PRODUCT_ALREADY_IN_AUCTION"
	CodeDuplicateResource       = "DUPLICATE_RESOURCE"

	CodeInvalidAuctionDates    = "INVALID_AUCTION_DATES"
	CodeInvalidContractProduct = "INVALID_CONTRACT_PRODUCT"
	CodeInvalidParameter       = "INVALID_PARAMETER"
	CodeValidationFailed       = "VALIDATION_FAILED"

	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeUnauthorized            = "UNAUTHORIZED"

	CodeAuctionNotActive    = "AUCTION_NOT_ACTIVE"
	CodeAuctionNotStarted   = "AUCTION_NOT_STARTED"
	CodeAuctionEnded        = "AUCTION_ENDED"
	CodeAuctionHasBids      = "AUCTION_HAS_BIDS"
	CodeCannotBidOwnAuction = "CANNOT_BID_OWN_AUCTION"
	CodeBidTooLow           = "BID_TOO_LOW"
	CodeOutOfStock          = "OUT_OF_STOCK"

	CodeInternalError = "INTERNAL_ERROR"
)

// Error is a structured application error raised at the point of
// detection and propagated unmodified to the HTTP boundary. Details
// carries the identifiers relevant to the failure so clients never have
// to parse message text.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error with an explicit HTTP status.
func New(code, message string, status int, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Status: status, Details: details}
}

func NotFound(code, message string, details map[string]any) *Error {
	return New(code, message, http.StatusNotFound, details)
}

func BadRequest(code, message string, details map[string]any) *Error {
	return New(code, message, http.StatusBadRequest, details)
}

func Forbidden(message string, details map[string]any) *Error {
	return New(CodeInsufficientPermissions, message, http.StatusForbidden, details)
}

func Conflict(code, message string, details map[string]any) *Error {
	return New(code, message, http.StatusConflict, details)
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}
