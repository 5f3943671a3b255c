package apierr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrProtectionNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", model.ErrSignNotFound), http.StatusNotFound},
		{model.ErrInvalidSignType, http.StatusBadRequest},
		{model.ErrNoSigns, http.StatusBadRequest},
		{model.ErrDuplicateSign, http.StatusBadRequest},
		{fmt.Errorf("%w: missing name", model.ErrInvalidProfile), http.StatusBadRequest},
		{fmt.Errorf("resolve 3 names: %w", model.ErrLookupFailed), http.StatusBadGateway},
		{model.ErrLoopStopped, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{NewInvalidRequestError("bad"), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("get: %w", model.ErrProtectionNotFound))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeProtectionNotFound, resp.Error.Code)
}
