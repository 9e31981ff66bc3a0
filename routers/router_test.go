package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/qr-forever/resolver/authorization"
	"github.com/qr-forever/resolver/ledger"
	"github.com/qr-forever/resolver/meta"
	"github.com/qr-forever/resolver/notifications"
	"github.com/qr-forever/resolver/ratelimit"
	"github.com/qr-forever/resolver/resolver"
	"github.com/qr-forever/resolver/timestamp"
)

const testAdminToken = "admin-secret-token"

type stubRegistry struct {
	targetType string
	target     string
	txHash     string
	err        error
}

func (sr *stubRegistry) GetRecord(ctx context.Context, tokenID *big.Int) (string, string, error) {
	return sr.targetType, sr.target, sr.err
}

func (sr *stubRegistry) LastUpdateTxHash(ctx context.Context, tokenID *big.Int, scanBlocks uint64) (string, error) {
	return sr.txHash, sr.err
}

type routerFixture struct {
	router  *gin.Engine
	storage meta.Storage
}

func setupTestRouter(t *testing.T, adminToken string, registry resolver.RegistryReader, mockRecordsJSON string,
	rateLimitPerMinute int, publicResolveEnabled bool) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := meta.NewInMemory()
	authService := authorization.NewService(storage)
	creditLedger := ledger.NewLedger(storage)
	resolverService := resolver.NewResolver(registry, resolver.ParseMockRecords(mockRecordsJSON), 50000, "polygon")
	billingNotifier := notifications.NewBillingNotifier("", "")

	router := SetupRouter(storage, authService, creditLedger, resolverService, ratelimit.NewLimiter(),
		billingNotifier, Config{
			AdminToken:           adminToken,
			RateLimitPerMinute:   rateLimitPerMinute,
			PublicResolveEnabled: publicResolveEnabled,
		})

	return &routerFixture{router: router, storage: storage}
}

func (rf *routerFixture) seedKey(t *testing.T, credits int64) (id, token string) {
	t.Helper()

	id = authorization.GenerateKeyID()
	secret := authorization.GenerateKeySecret()
	now := timestamp.Now()

	err := rf.storage.SaveAPIKey(&meta.APIKey{
		ID:               id,
		Name:             "test key",
		SecretHash:       authorization.HashSecret(secret),
		CreditsRemaining: credits,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	require.NoError(t, err)

	return id, authorization.BuildToken(id, secret)
}

func (rf *routerFixture) request(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	recorder := httptest.NewRecorder()
	rf.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	response := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func adminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testAdminToken}
}

func TestHealth(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "ok", recorder.Body.String())
}

func TestAdminNotConfigured(t *testing.T) {
	fixture := setupTestRouter(t, "", &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodPost, "/api/admin/keys/create",
		map[string]interface{}{"name": "k", "credits": 10}, adminHeaders())

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Equal(t, "admin_not_configured", decodeJSON(t, recorder)["error"])
}

func TestAdminUnauthorized(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodPost, "/api/admin/keys/create",
		map[string]interface{}{"name": "k"}, map[string]string{"Authorization": "Bearer wrong"})

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "admin_unauthorized", decodeJSON(t, recorder)["error"])
}

func TestAdminKeyLifecycle(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	//create: fractional credits are floored
	recorder := fixture.request(t, http.MethodPost, "/api/admin/keys/create",
		map[string]interface{}{"name": "partner", "credits": 10.7}, adminHeaders())
	require.Equal(t, http.StatusCreated, recorder.Code)

	created := decodeJSON(t, recorder)
	require.Equal(t, "partner", created["name"])
	require.Equal(t, float64(10), created["creditsRemaining"])
	require.Equal(t, true, created["active"])

	keyID := created["id"].(string)
	token := created["apiKey"].(string)
	require.NotEmpty(t, token)

	//the returned plaintext token authenticates as the created key
	recorder = fixture.request(t, http.MethodGet, "/api/me", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, keyID, decodeJSON(t, recorder)["id"])

	//get
	recorder = fixture.request(t, http.MethodGet, "/api/admin/keys/"+keyID, nil, adminHeaders())
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, float64(10), decodeJSON(t, recorder)["creditsRemaining"])

	//topup
	recorder = fixture.request(t, http.MethodPost, "/api/admin/keys/topup",
		map[string]interface{}{"keyId": keyID, "credits": 5}, adminHeaders())
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, float64(15), decodeJSON(t, recorder)["creditsRemaining"])

	//deactivate: the key stops authenticating
	recorder = fixture.request(t, http.MethodPost, "/api/admin/keys/"+keyID+"/deactivate", nil, adminHeaders())
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, false, decodeJSON(t, recorder)["active"])

	recorder = fixture.request(t, http.MethodGet, "/api/me", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "api_key_not_found_or_inactive", decodeJSON(t, recorder)["error"])

	//activate restores it
	recorder = fixture.request(t, http.MethodPost, "/api/admin/keys/"+keyID+"/activate", nil, adminHeaders())
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = fixture.request(t, http.MethodGet, "/api/me", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestAdminKeyNotFound(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodPost, "/api/admin/keys/topup",
		map[string]interface{}{"keyId": "missing", "credits": 5}, adminHeaders())

	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "api_key_not_found", decodeJSON(t, recorder)["error"])
}

func TestResolveMetered(t *testing.T) {
	mockRecords := `{"1": {"targetType": "url", "target": "https://example.com", "txHash": "0xabc"}}`
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, mockRecords, 60, true)
	_, token := fixture.seedKey(t, 1)

	recorder := fixture.request(t, http.MethodGet, "/api/resolve/1", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusOK, recorder.Code)

	response := decodeJSON(t, recorder)
	require.Equal(t, true, response["verified"])
	require.Equal(t, "polygon", response["chain"])
	require.Equal(t, "1", response["recordId"])
	require.Equal(t, "url", response["targetType"])
	require.Equal(t, "https://example.com", response["destination"])
	require.Equal(t, "0xabc", response["lastUpdateTxHash"])
	require.Equal(t, float64(0), response["creditsRemaining"])

	//the only credit is spent
	recorder = fixture.request(t, http.MethodGet, "/api/resolve/1", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusPaymentRequired, recorder.Code)
	require.Equal(t, "insufficient_credits", decodeJSON(t, recorder)["error"])
}

func TestResolveFailureBurnsNoCredit(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)
	keyID, token := fixture.seedKey(t, 3)

	recorder := fixture.request(t, http.MethodGet, "/api/resolve/not-a-number", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "record_not_found", decodeJSON(t, recorder)["error"])

	apiKey, err := fixture.storage.GetAPIKey(keyID)
	require.NoError(t, err)
	require.Equal(t, int64(3), apiKey.CreditsRemaining)
	require.Equal(t, int64(0), apiKey.TotalCalls)
}

func TestResolveLiveRegistry(t *testing.T) {
	registry := &stubRegistry{
		targetType: "ipfs",
		target:     "QmYwAPJzv5CZsnAzt8auVZRn2E6EkmsvXpBWLGXsTPbsDL",
		txHash:     "0xdeadbeef",
	}
	fixture := setupTestRouter(t, testAdminToken, registry, "", 60, true)
	_, token := fixture.seedKey(t, 10)

	recorder := fixture.request(t, http.MethodGet, "/api/resolve/42", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusOK, recorder.Code)

	response := decodeJSON(t, recorder)
	require.Equal(t, "ipfs", response["targetType"])
	require.Equal(t, "ipfs://QmYwAPJzv5CZsnAzt8auVZRn2E6EkmsvXpBWLGXsTPbsDL", response["destination"])
	require.Equal(t, "0xdeadbeef", response["lastUpdateTxHash"])
	require.Equal(t, float64(9), response["creditsRemaining"])
}

func TestResolveUnauthorized(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodGet, "/api/resolve/1", nil, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "missing_or_invalid_api_key", decodeJSON(t, recorder)["error"])

	recorder = fixture.request(t, http.MethodGet, "/api/resolve/1", nil, map[string]string{"X-Api-Key": "qrf_garbage"})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "missing_or_invalid_api_key", decodeJSON(t, recorder)["error"])
}

func TestPublicPage(t *testing.T) {
	mockRecords := `{"1": {"targetType": "url", "target": "https://example.com", "txHash": "0xabc"}}`
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, mockRecords, 60, true)

	//redirect=0 renders the page without the auto-redirect script
	recorder := fixture.request(t, http.MethodGet, "/r/1?redirect=0", nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	require.Equal(t, "no-store", recorder.Header().Get("Cache-Control"))

	page := recorder.Body.String()
	require.Contains(t, page, "https://example.com")
	require.Contains(t, page, "0xabc")
	require.NotContains(t, page, "Auto-redirecting")

	//default renders the auto-redirect countdown
	recorder = fixture.request(t, http.MethodGet, "/r/1", nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Auto-redirecting")
}

func TestPublicPageNotFound(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodGet, "/r/not-a-number", nil, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "Not found", recorder.Body.String())
}

func TestPublicPageRequiresKeyWhenDisabled(t *testing.T) {
	mockRecords := `{"1": {"targetType": "url", "target": "https://example.com", "txHash": "0xabc"}}`
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, mockRecords, 60, false)
	_, token := fixture.seedKey(t, 10)

	recorder := fixture.request(t, http.MethodGet, "/r/1", nil, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = fixture.request(t, http.MethodGet, "/r/1", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestResolverNotConfigured(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, nil, "", 60, true)
	_, token := fixture.seedKey(t, 10)

	//the configuration gate fires before authentication
	recorder := fixture.request(t, http.MethodGet, "/api/me", nil, map[string]string{"X-Api-Key": token})
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, "resolver_not_configured", decodeJSON(t, recorder)["error"])

	recorder = fixture.request(t, http.MethodGet, "/r/1", nil, nil)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRateLimit(t *testing.T) {
	mockRecords := `{"1": {"targetType": "url", "target": "https://example.com", "txHash": "0xabc"}}`
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, mockRecords, 2, true)

	headers := map[string]string{"CF-Connecting-IP": "203.0.113.7"}
	for i := 0; i < 2; i++ {
		recorder := fixture.request(t, http.MethodGet, "/r/1", nil, headers)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := fixture.request(t, http.MethodGet, "/r/1", nil, headers)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeJSON(t, recorder)["error"])

	//another client is counted independently
	recorder = fixture.request(t, http.MethodGet, "/r/1", nil, map[string]string{"CF-Connecting-IP": "203.0.113.8"})
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestUnknownRoute(t *testing.T) {
	fixture := setupTestRouter(t, testAdminToken, &stubRegistry{}, "", 60, true)

	recorder := fixture.request(t, http.MethodGet, "/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "not_found", decodeJSON(t, recorder)["error"])
}
