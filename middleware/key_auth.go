package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr-forever/resolver/authorization"
	"github.com/qr-forever/resolver/logging"
	"github.com/qr-forever/resolver/meta"
)

const APIKeyName = "api_key"

//extractToken returns the api key token from
//1. X-Api-Key header
//2. Authorization Bearer header
func extractToken(r *http.Request) string {
	token := r.Header.Get("X-Api-Key")
	if token == "" {
		token = extractBearerToken(r)
	}

	return token
}

//KeyAuth verifies the caller's api key token and puts the authenticated
//record into the request context
func KeyAuth(main gin.HandlerFunc, authService *authorization.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey, err := authService.Authenticate(extractToken(c.Request))
		if err != nil {
			status, code := authError(err)
			c.JSON(status, ErrorResponse{Error: code})
			return
		}

		c.Set(APIKeyName, apiKey)

		main(c)
	}
}

//ExtractAPIKey returns the authenticated record set by KeyAuth
func ExtractAPIKey(c *gin.Context) *meta.APIKey {
	iface, ok := c.Get(APIKeyName)
	if !ok {
		logging.SystemError("Api key wasn't found in the request context")
		return nil
	}

	return iface.(*meta.APIKey)
}

//authError separates authentication failures (401) from storage faults
//surfacing through Authenticate (500)
func authError(err error) (int, string) {
	switch err {
	case authorization.ErrMalformedToken:
		return http.StatusUnauthorized, "missing_or_invalid_api_key"
	case authorization.ErrKeyNotFound:
		return http.StatusUnauthorized, "api_key_not_found_or_inactive"
	case authorization.ErrWrongSecret:
		return http.StatusUnauthorized, "invalid_api_key"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
