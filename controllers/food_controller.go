package controllers

import (
	"net/http"

	"github.com/lucaswall/food-scanner-sub003/services"
	"github.com/lucaswall/food-scanner-sub003/utils"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Analysis *services.AnalysisService
	Matcher  *services.MatchService
}

func NewFoodController(analysis *services.AnalysisService, matcher *services.MatchService) *FoodController {
	return &FoodController{Analysis: analysis, Matcher: matcher}
}

type AnalyzeInput struct {
	Description string `json:"description"`
	ImageBase64 string `json:"image_base64"`
}

type AnalyzeResponse struct {
	Analysis *services.NutritionAnalysis `json:"analysis"`
	Matches  []services.FoodMatch        `json:"matches"`
	PhotoURL string                      `json:"photo_url,omitempty"`
}

// POST /food/analyze  { "description": "..." } or { "image_base64": "data:…" }
// Runs the AI analysis, then suggests up to 3 previously-logged foods that
// are probably the same thing.
func (h *FoodController) Analyze(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if input.Description == "" && input.ImageBase64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description or image_base64 required"})
		return
	}

	resp := AnalyzeResponse{}
	var (
		analysis *services.NutritionAnalysis
		err      error
	)
	if input.ImageBase64 != "" {
		photoURL, rawBase64, contentType, upErr := utils.UploadFoodPhoto(input.ImageBase64, userID)
		if upErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": upErr.Error()})
			return
		}
		resp.PhotoURL = photoURL
		analysis, err = h.Analysis.AnalyzePhoto(c.Request.Context(), rawBase64, contentType)
	} else {
		analysis, err = h.Analysis.AnalyzeDescription(c.Request.Context(), input.Description)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	matches, err := h.Matcher.FindMatches(c.Request.Context(), userID, *analysis)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp.Analysis = analysis
	resp.Matches = matches
	c.JSON(http.StatusOK, resp)
}
