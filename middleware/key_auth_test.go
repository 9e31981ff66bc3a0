package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/qr-forever/resolver/authorization"
	"github.com/qr-forever/resolver/meta"
)

type failingStorage struct{}

func (fs *failingStorage) GetAPIKey(id string) (*meta.APIKey, error) {
	return nil, errors.New("redis: connection refused")
}

func (fs *failingStorage) SaveAPIKey(key *meta.APIKey) error {
	return errors.New("redis: connection refused")
}

func (fs *failingStorage) Type() string {
	return "failing"
}

func (fs *failingStorage) Close() error {
	return nil
}

func TestKeyAuthStorageFault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authService := authorization.NewService(&failingStorage{})
	router := gin.New()
	router.GET("/protected", KeyAuth(func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, authService))

	//a well formed token so the lookup reaches the storage
	token := authorization.BuildToken("abcd1234efgh", strings.Repeat("s1", 12))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Api-Key", token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	//a storage outage is an infrastructure fault, not a rejected credential
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Contains(t, recorder.Body.String(), "internal_error")

	//a malformed token is still the caller's fault
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Api-Key", "qrf_garbage")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Contains(t, recorder.Body.String(), "missing_or_invalid_api_key")
}
