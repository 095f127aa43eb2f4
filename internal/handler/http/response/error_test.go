package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"validation", validator.ValidationErrors{{Field: "kind", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"stage mismatch", &approval.StageMismatchError{Role: user.RoleHR}, http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized role", approval.ErrUnauthorizedRole, http.StatusForbidden, "FORBIDDEN"},
		{"already resolved", approval.ErrAlreadyResolved, http.StatusConflict, "CONFLICT"},
		{"transient", fmt.Errorf("%w: %w", approval.ErrTransientStore, errors.New("conn reset")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"invalid token", user.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.want, w.Code)

			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_StageMismatchMessage(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, &approval.StageMismatchError{Role: user.RoleManager, Expected: approval.StatusPendingManager, Actual: approval.StatusPendingHR})

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error.Message, "only items pending manager review can be approved by a manager")
}
