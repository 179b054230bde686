package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/models/dto"
)

// deleteConfirmed reports whether the request carries confirm=true. The
// check is case-insensitive; anything else means the delete still needs
// confirmation.
func deleteConfirmed(c *gin.Context) bool {
	return strings.EqualFold(c.Query("confirm"), "true")
}

// writeConfirmPrompt answers the unconfirmed stage of a two-step delete.
// The prompt carries the URL to resend with confirm=true; no state has
// changed at this point.
func writeConfirmPrompt(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.ConfirmPrompt{
		Message:    message,
		ConfirmURL: confirmURL(c),
	})
}

// confirmURL rebuilds the request URL with the confirm=true query
// parameter appended.
func confirmURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.Path + "?confirm=true"
}
