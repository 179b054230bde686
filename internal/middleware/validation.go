package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/anandps/schooldesk/internal/app/models/dto"
)

// BindJSON binds and validates a JSON request body. On failure it writes
// the 400 response with per-field messages and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(verrs)))
		} else {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")))
		}
		return false
	}
	return true
}
