package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/qr-forever/resolver/authorization"
	"github.com/qr-forever/resolver/ledger"
	"github.com/qr-forever/resolver/meta"
	"github.com/qr-forever/resolver/middleware"
	"github.com/qr-forever/resolver/timestamp"
)

type CreateKeyRequest struct {
	Name string `json:"name"`
	//credits arrive as json number or string depending on the client
	Credits interface{} `json:"credits"`
}

type CreateKeyResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	CreditsRemaining int64  `json:"creditsRemaining"`
	Active           bool   `json:"active"`
	//APIKey is the composed plaintext token, shown exactly once
	APIKey string `json:"apiKey"`
}

type TopUpRequest struct {
	KeyID   string      `json:"keyId"`
	Credits interface{} `json:"credits"`
}

type KeyStateResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

//AdminKeysHandler serves privileged api key management: create, top-up,
//inspect, activate/deactivate. Keys are never deleted.
type AdminKeysHandler struct {
	storage      meta.Storage
	creditLedger *ledger.Ledger
}

func NewAdminKeysHandler(storage meta.Storage, creditLedger *ledger.Ledger) *AdminKeysHandler {
	return &AdminKeysHandler{storage: storage, creditLedger: creditLedger}
}

func (akh *AdminKeysHandler) CreateHandler(c *gin.Context) {
	request := &CreateKeyRequest{}
	if err := c.BindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "malformed_request", Message: err.Error()})
		return
	}

	id := authorization.GenerateKeyID()
	secret := authorization.GenerateKeySecret()
	now := timestamp.Now()

	apiKey := &meta.APIKey{
		ID:               id,
		Name:             request.Name,
		SecretHash:       authorization.HashSecret(secret),
		CreditsRemaining: ledger.NormalizeCredits(cast.ToFloat64(request.Credits)),
		TotalCalls:       0,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := akh.storage.SaveAPIKey(apiKey); err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}

	//the raw secret is dropped after this response: only the digest is kept
	c.JSON(http.StatusCreated, CreateKeyResponse{
		ID:               apiKey.ID,
		Name:             apiKey.Name,
		CreditsRemaining: apiKey.CreditsRemaining,
		Active:           apiKey.Active,
		APIKey:           authorization.BuildToken(id, secret),
	})
}

func (akh *AdminKeysHandler) TopUpHandler(c *gin.Context) {
	request := &TopUpRequest{}
	if err := c.BindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "malformed_request", Message: err.Error()})
		return
	}

	apiKey, err := akh.getKey(c, request.KeyID)
	if apiKey == nil || err != nil {
		return
	}

	updated, err := akh.creditLedger.TopUp(apiKey, cast.ToFloat64(request.Credits))
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, keySummary(updated))
}

func (akh *AdminKeysHandler) GetHandler(c *gin.Context) {
	apiKey, err := akh.getKey(c, c.Param("id"))
	if apiKey == nil || err != nil {
		return
	}

	c.JSON(http.StatusOK, keySummary(apiKey))
}

func (akh *AdminKeysHandler) ActivateHandler(c *gin.Context) {
	akh.setActive(c, true)
}

func (akh *AdminKeysHandler) DeactivateHandler(c *gin.Context) {
	akh.setActive(c, false)
}

func (akh *AdminKeysHandler) setActive(c *gin.Context, active bool) {
	apiKey, err := akh.getKey(c, c.Param("id"))
	if apiKey == nil || err != nil {
		return
	}

	apiKey.Active = active
	apiKey.UpdatedAt = timestamp.Now()

	if err := akh.storage.SaveAPIKey(apiKey); err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, KeyStateResponse{ID: apiKey.ID, Active: apiKey.Active})
}

//getKey loads the record and writes the error response itself when the
//id is unknown or the storage fails
func (akh *AdminKeysHandler) getKey(c *gin.Context, id string) (*meta.APIKey, error) {
	apiKey, err := akh.storage.GetAPIKey(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return nil, err
	}

	if apiKey == nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "api_key_not_found"})
		return nil, nil
	}

	return apiKey, nil
}
