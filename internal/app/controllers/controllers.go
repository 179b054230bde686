package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/middleware"
)

// pathID parses the id path parameter. On failure it writes the 400
// response and returns false.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "ID must be a valid number")))
		return 0, false
	}
	return id, true
}

// requireCaller returns the authenticated caller set by the auth
// middleware. A missing caller means the route was wired without JWTAuth.
func requireCaller(c *gin.Context) (models.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return models.Caller{}, false
	}
	return caller, true
}
