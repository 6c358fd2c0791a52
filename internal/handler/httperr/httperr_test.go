//go:build unit

package httperr_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"buildquote/internal/handler/httperr"
	"buildquote/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAbortWithWorkflowError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Errors arrive marked and wrapped, the way usecases produce them.
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "validation maps to 400",
			err:            errs.Mark(errs.New("quantity must be positive"), errs.ErrValidation),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not authorized maps to 403",
			err:            errs.Mark(errs.New("supplier was not invited"), errs.ErrNotAuthorized),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "not found maps to 404",
			err:            errs.Mark(errs.New("rfq not found"), errs.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "conflict maps to 409",
			err:            errs.Mark(errs.New("rfq already has an outcome"), errs.ErrConflict),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "expired maps to 410",
			err:            errs.Mark(errs.New("rfq has expired"), errs.ErrRfqExpired),
			expectedStatus: http.StatusGone,
		},
		{
			name:           "acceptance failure maps to 503",
			err:            errs.Mark(errs.New("commit failed"), errs.ErrAcceptanceFailed),
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "transient maps to 503",
			err:            errs.Mark(errs.New("retries exhausted"), errs.ErrTransient),
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "wrapped marked error keeps its status",
			err:            errs.Wrap(errs.Mark(errs.New("lost the race"), errs.ErrConflict), "failed to accept quote"),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unrecognized error maps to 500",
			err:            errs.New("something unexpected"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			httperr.AbortWithWorkflowError(c, tc.err, "request failed")

			require.Equal(t, tc.expectedStatus, w.Code)
			require.JSONEq(t, `{"error":{"message":"request failed"}}`, w.Body.String())
		})
	}
}
