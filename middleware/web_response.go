package middleware

//error bodies are contractual: clients branch on the error code string
const (
	ErrAdminNotConfigured  = "admin_not_configured"
	ErrAdminUnauthorized   = "admin_unauthorized"
	ErrResolverUnavailable = "resolver_not_configured"
	ErrRateLimitExceeded   = "rate_limit_exceeded"
	ErrInsufficientCredits = "insufficient_credits"
	ErrNotFound            = "not_found"
)

type OkResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
