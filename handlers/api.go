package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr-forever/resolver/ledger"
	"github.com/qr-forever/resolver/metrics"
	"github.com/qr-forever/resolver/middleware"
	"github.com/qr-forever/resolver/notifications"
	"github.com/qr-forever/resolver/resolver"
	"github.com/qr-forever/resolver/timestamp"
)

//APIHandler serves the metered json resolution routes
type APIHandler struct {
	resolverService *resolver.Resolver
	creditLedger    *ledger.Ledger
	billingNotifier *notifications.BillingNotifier
}

func NewAPIHandler(resolverService *resolver.Resolver, creditLedger *ledger.Ledger, billingNotifier *notifications.BillingNotifier) *APIHandler {
	return &APIHandler{
		resolverService: resolverService,
		creditLedger:    creditLedger,
		billingNotifier: billingNotifier,
	}
}

//ResolveHandler resolves the record, consumes one credit on success and
//fires the detached billing notification
func (ah *APIHandler) ResolveHandler(c *gin.Context) {
	apiKey := middleware.ExtractAPIKey(c)
	if apiKey == nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error"})
		return
	}

	recordID := c.Param("id")

	record, err := ah.resolverService.Resolve(c.Request.Context(), recordID)
	if err != nil {
		metrics.ErrorResolve(apiKey.ID, "")
		status, response := resolveErrorResponse(err)
		c.JSON(status, response)
		return
	}

	updated, err := ah.creditLedger.Consume(apiKey)
	if err != nil {
		if err == ledger.ErrInsufficientCredits {
			c.JSON(http.StatusPaymentRequired, middleware.ErrorResponse{Error: middleware.ErrInsufficientCredits})
			return
		}

		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}

	metrics.SuccessResolve(updated.ID, string(record.TargetType))

	//detached: the response never waits for the webhook
	ah.billingNotifier.Notify(&notifications.UsageEvent{
		APIKeyID:         updated.ID,
		RecordID:         record.RecordID,
		CreditsRemaining: updated.CreditsRemaining,
		TotalCalls:       updated.TotalCalls,
		Timestamp:        timestamp.NowUTC(),
	})

	c.JSON(http.StatusOK, ResolveResponse{
		Verified:         true,
		Chain:            ah.resolverService.ChainName(),
		RecordID:         record.RecordID,
		TargetType:       string(record.TargetType),
		Target:           record.Target,
		Destination:      record.Destination,
		LastUpdateTxHash: record.LastUpdateTxHash,
		CreditsRemaining: updated.CreditsRemaining,
	})
}

//MeHandler returns the authenticated credential summary
func (ah *APIHandler) MeHandler(c *gin.Context) {
	apiKey := middleware.ExtractAPIKey(c)
	if apiKey == nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error"})
		return
	}

	c.JSON(http.StatusOK, keySummary(apiKey))
}
