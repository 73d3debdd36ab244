package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sovereign/api/internal/service"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	result, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin login successful",
		"data":    gin.H{"token": result.Token, "expiresIn": result.ExpiresIn},
	})
}

func (h HandlerSet) AdminStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"users": gin.H{
			"total":   stats.UsersTotal,
			"pending": stats.UsersPending,
			"active":  stats.UsersActive,
			"premium": stats.UsersPremium,
		},
		"applications": gin.H{
			"pending": stats.PendingApplications,
		},
	})
}

type pendingApplicationResponse struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	UserStatus    string    `json:"user_status"`
	Handle        string    `json:"handle"`
	Motivation    string    `json:"motivation"`
	Experience    string    `json:"experience"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h HandlerSet) AdminListApplications(c *gin.Context) {
	reviews, err := h.adminService.PendingApplications(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	items := make([]pendingApplicationResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, pendingApplicationResponse{
			ApplicationID: review.ApplicationID,
			UserID:        review.UserID,
			Email:         review.Email,
			UserStatus:    string(review.UserStatus),
			Handle:        review.RequestedHandle,
			Motivation:    review.Motivation,
			Experience:    review.Experience,
			CreatedAt:     review.CreatedAt,
		})
	}

	respondData(c, http.StatusOK, gin.H{"applications": items})
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"users": users})
}

type approveRequest struct {
	UserID         string `json:"userId"`
	PlatformHandle string `json:"platformHandle"`
}

func (h HandlerSet) AdminApprove(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	if err := h.adminService.Approve(c.Request.Context(), req.UserID, req.PlatformHandle); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondMessage(c, http.StatusOK, "Approved")
}

type rejectRequest struct {
	UserID string `json:"userId"`
}

func (h HandlerSet) AdminReject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	if err := h.adminService.Reject(c.Request.Context(), req.UserID); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondMessage(c, http.StatusOK, "Rejected")
}

type bulkActionRequest struct {
	Action  string   `json:"action"`
	UserIDs []string `json:"userIds"`
}

func (h HandlerSet) AdminBulkAction(c *gin.Context) {
	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	results, err := h.adminService.BulkApply(c.Request.Context(), service.BulkAction(req.Action), req.UserIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"results": results})
}

type exportRequest struct {
	Type   string `json:"type"`
	Format string `json:"format"`
}

func (h HandlerSet) AdminExportData(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	result, err := h.adminService.Export(c.Request.Context(), service.ExportType(req.Type), service.ExportFormat(req.Format))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if result.Body != nil {
		c.Data(http.StatusOK, result.ContentType, result.Body)
		return
	}
	respondData(c, http.StatusOK, result.Rows)
}
