package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sovereign/api/internal/apierr"
)

// All responses share one envelope: {success, data|error, message?}.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// respondError maps a service error onto the envelope. Store and
// configuration causes are logged here and never echoed to the caller.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	apiErr := apierr.From(err)
	if apiErr.Status() >= 500 {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.JSON(apiErr.Status(), gin.H{"success": false, "error": apiErr.Public()})
}

func respondValidation(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
