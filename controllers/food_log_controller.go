package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lucaswall/food-scanner-sub003/services"

	"github.com/gin-gonic/gin"
)

type FoodLogController struct {
	Logs    *services.FoodLogService
	Foods   *services.CustomFoodService
	Fasting *services.FastingService
	Fitbit  *services.FitbitService
	RT      *services.RealtimeHub
}

func NewFoodLogController(
	logs *services.FoodLogService,
	foods *services.CustomFoodService,
	fasting *services.FastingService,
	fitbit *services.FitbitService,
	rt *services.RealtimeHub,
) *FoodLogController {
	return &FoodLogController{Logs: logs, Foods: foods, Fasting: fasting, Fitbit: fitbit, RT: rt}
}

type LogFoodInput struct {
	CustomFoodID uint   `json:"custom_food_id" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Time         string `json:"time" binding:"required"` // HH:MM:SS
	LogToFitbit  bool   `json:"log_to_fitbit"`
}

// POST /food/logs — log a meal; optionally re-log it to Fitbit. The first
// meal of a day closes the overnight fast, so connected dashboards get a
// fast.ended event.
func (h *FoodLogController) LogFood(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input LogFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Logs.Log(c.Request.Context(), userID, input.CustomFoodID, input.Date, input.Time)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "custom food not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"entry": entry}

	if input.LogToFitbit {
		food, err := h.Foods.Get(c.Request.Context(), userID, input.CustomFoodID)
		if err == nil {
			err = h.Fitbit.LogFood(c.Request.Context(), userID, food, input.Date, input.Time)
		}
		if err != nil {
			// the local log already succeeded; report the Fitbit failure
			// without rolling back
			resp["fitbit_error"] = err.Error()
		} else {
			resp["fitbit_logged"] = true
		}
	}

	if first, err := h.Logs.FirstOfDay(c.Request.Context(), entry); err == nil && first {
		if w, err := h.Fasting.WindowForDate(c.Request.Context(), userID, entry.Date); err == nil && w != nil {
			h.RT.Broadcast(userID, gin.H{"kind": "fast.ended", "window": w})
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// GET /food/logs?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *FoodLogController) ListLogs(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	entries, err := h.Logs.EntriesInDateRange(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DELETE /food/logs/:id
func (h *FoodLogController) DeleteLog(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.Logs.Delete(c.Request.Context(), userID, uint(entryID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
