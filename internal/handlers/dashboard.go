package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed dashboard.html
var dashboardHTML []byte

// AdminDashboard serves the static review console. It is a plain asset,
// reachable without a token; every data call it makes goes through the
// authenticated admin endpoints.
func (h HandlerSet) AdminDashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}
