package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lucaswall/food-scanner-sub003/services"

	"github.com/gin-gonic/gin"
)

type CustomFoodController struct {
	Foods *services.CustomFoodService
}

func NewCustomFoodController(foods *services.CustomFoodService) *CustomFoodController {
	return &CustomFoodController{Foods: foods}
}

type CreateCustomFoodInput struct {
	FoodName string   `json:"food_name" binding:"required"`
	Keywords []string `json:"keywords"`
	Calories int      `json:"calories" binding:"min=0"`
	ProteinG float64  `json:"protein_g" binding:"min=0"`
	CarbsG   float64  `json:"carbs_g" binding:"min=0"`
	FatG     float64  `json:"fat_g" binding:"min=0"`
	Amount   float64  `json:"amount" binding:"required,gt=0"`
	UnitID   int64    `json:"unit_id" binding:"required"`
}

// POST /foods — persist an accepted analysis as a reusable custom food.
func (h *CustomFoodController) Create(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input CreateCustomFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis := services.NutritionAnalysis{
		FoodName: input.FoodName,
		Keywords: input.Keywords,
		Calories: input.Calories,
		ProteinG: input.ProteinG,
		CarbsG:   input.CarbsG,
		FatG:     input.FatG,
	}
	food, err := h.Foods.CreateFromAnalysis(c.Request.Context(), userID, analysis, input.Amount, input.UnitID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, food)
}

// GET /foods
func (h *CustomFoodController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	foods, err := h.Foods.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, foods)
}

// POST /foods/:id/fitbit  { "fitbit_food_id": 123 }
func (h *CustomFoodController) LinkFitbit(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	foodID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	var input struct {
		FitbitFoodID int64 `json:"fitbit_food_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Foods.LinkFitbit(c.Request.Context(), userID, uint(foodID), input.FitbitFoodID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fitbit link saved"})
}
