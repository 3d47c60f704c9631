package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lucaswall/food-scanner-sub003/config"
	"github.com/lucaswall/food-scanner-sub003/models"
	"github.com/lucaswall/food-scanner-sub003/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type FitbitController struct {
	Svc *services.FitbitService
}

func NewFitbitController(svc *services.FitbitService) *FitbitController {
	return &FitbitController{Svc: svc}
}

type SaveTokenInput struct {
	FitbitUserID string `json:"fitbit_user_id"`
	AccessToken  string `json:"access_token" binding:"required"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// POST /fitbit/token — store the access token produced by the OAuth flow
// (which lives outside this service).
func (h *FitbitController) SaveToken(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input SaveTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tok := models.FitbitToken{
		UserID:       userID,
		FitbitUserID: input.FitbitUserID,
		AccessToken:  input.AccessToken,
	}
	if input.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(input.ExpiresIn) * time.Second)
	}

	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&tok).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fitbit token saved"})
}

// GET /fitbit/units/:id — serving unit metadata, cached per process.
func (h *FitbitController) GetUnit(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	unit, err := h.Svc.Unit(c.Request.Context(), userID, unitID)
	if err != nil {
		if errors.Is(err, services.ErrFitbitNotConnected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, unit)
}
