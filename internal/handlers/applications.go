package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sovereign/api/internal/middleware"
	"sovereign/api/internal/service"
)

type submitApplicationRequest struct {
	RequestedHandle string                    `json:"requested_handle"`
	Motivation      string                    `json:"motivation"`
	Experience      string                    `json:"experience"`
	Affirmations    service.AffirmationsInput `json:"affirmations"`
}

func (h HandlerSet) SubmitApplication(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing token"})
		return
	}

	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	if err := h.applicationService.Submit(c.Request.Context(), service.SubmitInput{
		UserID:          identity.UserID,
		RequestedHandle: req.RequestedHandle,
		Motivation:      req.Motivation,
		Experience:      req.Experience,
		Affirmations:    req.Affirmations,
	}); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Application submitted successfully")
}

type applicationStatusResponse struct {
	ID              string                    `json:"id"`
	RequestedHandle string                    `json:"requested_handle"`
	Motivation      string                    `json:"motivation"`
	Experience      string                    `json:"experience"`
	Status          string                    `json:"status"`
	CreatedAt       time.Time                 `json:"created_at"`
	ReviewedAt      *time.Time                `json:"reviewed_at"`
	Affirmations    service.AffirmationsInput `json:"affirmations"`
}

func (h HandlerSet) ApplicationStatus(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing token"})
		return
	}

	status, err := h.applicationService.Status(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if status == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": nil, "message": "No application found"})
		return
	}

	app := status.Application
	aff := status.Affirmations
	respondData(c, http.StatusOK, applicationStatusResponse{
		ID:              app.ID,
		RequestedHandle: app.RequestedHandle,
		Motivation:      app.Motivation,
		Experience:      app.Experience,
		Status:          string(app.Status),
		CreatedAt:       app.CreatedAt,
		ReviewedAt:      app.ReviewedAt,
		Affirmations: service.AffirmationsInput{
			BTCOnly:                aff.BTCOnly,
			LondonNYOnly:           aff.LondonNYOnly,
			RMultipleOnly:          aff.RMultipleOnly,
			NoSignalExpectation:    aff.NoSignalExpectation,
			DisciplineOverProfit:   aff.DisciplineOverProfit,
			PersonalRiskAcceptance: aff.PersonalRiskAcceptance,
		},
	})
}

func (h HandlerSet) AffirmationPrompts(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"protocols": h.applicationService.AffirmationPrompts(),
	})
}
