package handlers

import (
	"errors"
	"net/http"

	"github.com/qr-forever/resolver/middleware"
	"github.com/qr-forever/resolver/resolver"
)

//resolveErrorStatus maps resolution failures for the plain html route
func resolveErrorStatus(err error) (int, string) {
	validationErr := &resolver.ValidationError{}
	upstreamErr := &resolver.UpstreamError{}

	switch {
	case errors.Is(err, resolver.ErrRecordNotFound):
		return http.StatusNotFound, "Not found"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "Stored target is invalid"
	case errors.As(err, &upstreamErr):
		return http.StatusInternalServerError, "Resolver error: " + upstreamErr.Err.Error()
	default:
		return http.StatusInternalServerError, "Resolver error: " + err.Error()
	}
}

//resolveErrorResponse maps resolution failures for the json api route
func resolveErrorResponse(err error) (int, middleware.ErrorResponse) {
	validationErr := &resolver.ValidationError{}
	upstreamErr := &resolver.UpstreamError{}

	switch {
	case errors.Is(err, resolver.ErrRecordNotFound):
		return http.StatusNotFound, middleware.ErrorResponse{Error: "record_not_found"}
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, middleware.ErrorResponse{Error: "stored_target_invalid"}
	case errors.As(err, &upstreamErr):
		return http.StatusInternalServerError, middleware.ErrorResponse{Error: "upstream_error", Message: upstreamErr.Err.Error()}
	default:
		return http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal_error", Message: err.Error()}
	}
}
