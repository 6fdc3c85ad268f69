package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondWithError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		// wantDetail: the response body carries err.Error(); otherwise it
		// carries only the generic fallback message.
		wantDetail bool
	}{
		{
			name:       "validation maps to 400 with detail",
			err:        fmt.Errorf("%w: debits 100 do not equal credits 90", apperrors.ErrValidation),
			wantStatus: http.StatusBadRequest,
			wantDetail: true,
		},
		{
			name:       "not found maps to 404",
			err:        fmt.Errorf("%w: entry abc", apperrors.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantDetail: true,
		},
		{
			name:       "invalid state maps to 409",
			err:        fmt.Errorf("%w: entry abc is REVERSED", apperrors.ErrInvalidState),
			wantStatus: http.StatusConflict,
			wantDetail: true,
		},
		{
			name:       "creation guard maps to 409",
			err:        fmt.Errorf("%w: exception xyz is dismissed", apperrors.ErrCreation),
			wantStatus: http.StatusConflict,
			wantDetail: true,
		},
		{
			name:       "unbalanced maps to 422",
			err:        fmt.Errorf("%w: entry abc", apperrors.ErrUnbalanced),
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: true,
		},
		{
			name:       "integrity violation maps to 500 with full detail",
			err:        fmt.Errorf("%w: assets 100 != liabilities 0 + equity 0", apperrors.ErrIntegrity),
			wantStatus: http.StatusInternalServerError,
			wantDetail: true,
		},
		{
			name:       "unknown errors map to 500 without detail",
			err:        fmt.Errorf("pgx: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondWithError(c, logger, tc.err, "something went wrong")

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantDetail {
				assert.Contains(t, w.Body.String(), tc.err.Error())
			} else {
				assert.Contains(t, w.Body.String(), "something went wrong")
				assert.NotContains(t, w.Body.String(), "connection refused")
			}
		})
	}
}
