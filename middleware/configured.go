package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr-forever/resolver/resolver"
)

//RequireResolver fails closed while the backing ledger contract is not
//configured
func RequireResolver(service *resolver.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !service.Configured() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrResolverUnavailable})
			return
		}

		c.Next()
	}
}
