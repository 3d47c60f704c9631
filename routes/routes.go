package routes

import (
	"github.com/lucaswall/food-scanner-sub003/config"
	"github.com/lucaswall/food-scanner-sub003/controllers"
	"github.com/lucaswall/food-scanner-sub003/middlewares"
	"github.com/lucaswall/food-scanner-sub003/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	logSvc := services.NewFoodLogService(config.DB)
	foodSvc := services.NewCustomFoodService(config.DB)
	fastingSvc := services.NewFastingService(logSvc)
	matchSvc := services.NewMatchService(foodSvc)
	analysisSvc := services.NewAnalysisService()
	fitbitSvc := services.NewFitbitService(config.DB)
	hub := services.NewRealtimeHub()

	foodCtl := controllers.NewFoodController(analysisSvc, matchSvc)
	customFoodCtl := controllers.NewCustomFoodController(foodSvc)
	logCtl := controllers.NewFoodLogController(logSvc, foodSvc, fastingSvc, fitbitSvc, hub)
	fastingCtl := controllers.NewFastingController(fastingSvc)
	fitbitCtl := controllers.NewFitbitController(fitbitSvc)
	rtCtl := controllers.NewRealtimeController(hub, fastingSvc)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/food/analyze", foodCtl.Analyze)

		api.GET("/foods", customFoodCtl.List)
		api.POST("/foods", customFoodCtl.Create)
		api.POST("/foods/:id/fitbit", customFoodCtl.LinkFitbit)

		api.POST("/food/logs", logCtl.LogFood)
		api.GET("/food/logs", logCtl.ListLogs)
		api.DELETE("/food/logs/:id", logCtl.DeleteLog)

		api.POST("/fitbit/token", fitbitCtl.SaveToken)
		api.GET("/fitbit/units/:id", fitbitCtl.GetUnit)

		api.GET("/fasting/window", fastingCtl.GetWindow)
		api.GET("/fasting/windows", fastingCtl.GetWindows)

		api.GET("/ws/fasting", rtCtl.FastingWS)
	}

	return r
}
