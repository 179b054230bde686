package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/anandps/schooldesk/internal/pkg/apperrors"
)

func handle(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	HandleAPIError(c, err)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"forbidden with reason", apperrors.NewForbiddenError("only admin can add users"), http.StatusForbidden},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound},
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound},
		{"library record not found", apperrors.ErrLibraryRecordNotFound, http.StatusNotFound},
		{"fee record not found", apperrors.ErrFeeRecordNotFound, http.StatusNotFound},
		{"no student profile", apperrors.ErrNoStudentProfile, http.StatusNotFound},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token expired", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"token revoked", apperrors.ErrTokenRevoked, http.StatusUnauthorized},
		{"token not found", apperrors.ErrTokenNotFound, http.StatusUnauthorized},
		{"validation failed", apperrors.ErrValidationFailed, http.StatusBadRequest},
		{"bad request", apperrors.NewBadRequestError("invalid borrow_date"), http.StatusBadRequest},
		{"username taken", apperrors.ErrUsernameTaken, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := handle(t, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleAPIErrorSurfacesCustomMessage(t *testing.T) {
	w := handle(t, apperrors.NewForbiddenError("You can only view your own library records."))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You can only view your own library records.")
}

func TestHandleAPIErrorHidesInternalDetails(t *testing.T) {
	w := handle(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), apperrors.ErrStudentNotFound)
	w := handle(t, wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
