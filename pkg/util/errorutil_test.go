package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil", nil, "", 0},
		{"passthrough", NewForbidden("nope").(*DomainError), "FORBIDDEN", http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewNotFound("complaint", nil)), "NOT_FOUND", http.StatusNotFound},
		{"no rows maps to not found", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"unknown maps to internal", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	cause := errors.New("connection reset by peer")
	domainErr := ToDomainError(cause)

	// The client-facing message carries no store detail.
	assert.Equal(t, "internal server error", domainErr.Message)
	assert.ErrorIs(t, domainErr, cause)
}

func TestTaxonomyStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewUnauthenticated("x")).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewForbidden("x")).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ToDomainError(NewValidationError("x", nil)).HTTPStatus)
	assert.Equal(t, http.StatusConflict, ToDomainError(NewConflict("x", nil)).HTTPStatus)
}
