package controllers

import (
	"net/http"
	"time"

	"github.com/lucaswall/food-scanner-sub003/config"
	"github.com/lucaswall/food-scanner-sub003/models"
	"github.com/lucaswall/food-scanner-sub003/services"

	"github.com/gin-gonic/gin"
)

type FastingController struct {
	Svc *services.FastingService
}

func NewFastingController(svc *services.FastingService) *FastingController {
	return &FastingController{Svc: svc}
}

type fastingWindowResponse struct {
	Window         *services.FastingWindow `json:"window"`
	Live           bool                    `json:"live"`
	ElapsedMinutes *int                    `json:"elapsed_minutes,omitempty"`
}

// GET /fasting/window?date=YYYY-MM-DD (defaults to the user's today)
func (h *FastingController) GetWindow(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	loc := userLocation(userID)
	now := time.Now().In(loc)
	today := now.Format("2006-01-02")
	date := c.DefaultQuery("date", today)

	w, err := h.Svc.WindowForDate(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if w == nil {
		c.JSON(http.StatusOK, gin.H{"window": nil, "live": false})
		return
	}

	resp := fastingWindowResponse{Window: w}
	// a fast is live only when querying today and no meal has been logged
	// yet; its start is the last meal of yesterday
	if date == today && w.FirstMealTime == nil {
		resp.Live = true
		if m := elapsedMinutes(now, date, w.LastMealTime, loc); m != nil {
			resp.ElapsedMinutes = m
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GET /fasting/windows?from=YYYY-MM-DD&to=YYYY-MM-DD — one window per day
// that has one; days without a previous-day meal are omitted.
func (h *FastingController) GetWindows(c *gin.Context) {
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

	windows, err := h.Svc.WindowsForRange(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// --- helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

func userLocation(userID uint) *time.Location {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err == nil && user.Timezone != "" {
		if loc, err := time.LoadLocation(user.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// elapsedMinutes measures an ongoing fast: from the last meal of the day
// before date until now.
func elapsedMinutes(now time.Time, date, lastMealTime string, loc *time.Location) *int {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil
	}
	clock, err := time.Parse("15:04:05", lastMealTime)
	if err != nil {
		return nil
	}
	prev := day.AddDate(0, 0, -1)
	lastAt := time.Date(prev.Year(), prev.Month(), prev.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	m := int(now.Sub(lastAt).Minutes())
	if m < 0 {
		return nil
	}
	return &m
}
