package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"studio-orders/internal/core"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{core.ErrOrderNotFound, http.StatusNotFound},
		{core.ErrClientNotFound, http.StatusNotFound},
		{core.ErrFileNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", core.ErrInvalidOrder), http.StatusUnprocessableEntity},
		{core.ErrInvalidLineItem, http.StatusUnprocessableEntity},
		{core.ErrDuplicateInvoiceNumber, http.StatusConflict},
		{core.ErrCatalogConflict, http.StatusConflict},
		{core.ErrCorruptRecord, http.StatusUnprocessableEntity},
		{core.ErrInvalidCredentials, http.StatusUnauthorized},
		{core.ErrAccountPending, http.StatusForbidden},
		{core.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("something unexpected"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		writeServiceError(rec, req, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}
