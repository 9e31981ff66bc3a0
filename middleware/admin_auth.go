package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type AdminToken struct {
	Token string
}

//AdminAuth gates privileged routes with the static admin secret.
//An unset secret fails closed: every admin call answers 503.
func (a *AdminToken) AdminAuth(main gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Token == "" {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: ErrAdminNotConfigured})
			return
		}

		token := extractBearerToken(c.Request)
		if token != a.Token {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrAdminUnauthorized})
			return
		}

		main(c)
	}
}

func extractBearerToken(r *http.Request) string {
	authHeader := strings.Split(r.Header.Get("Authorization"), "Bearer ")
	if len(authHeader) != 2 {
		return ""
	}

	return strings.TrimSpace(authHeader[1])
}
