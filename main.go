package main

import (
	"log"
	"proposalcard-backend/config"
	"proposalcard-backend/database"
	"proposalcard-backend/handlers"
	"proposalcard-backend/middleware"
	"proposalcard-backend/models"
	"proposalcard-backend/services"
	"proposalcard-backend/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Wire the proposal service
	svc := services.NewProposalService(store.NewGorm(database.DB))
	svc.OnResponse(func(email string, p *models.Proposal) {
		services.GetNotificationService().NotifyResponse(email, p)
	})
	handlers.Init(svc)

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// API ROUTES (public — share links need no login)
	// ==========================================
	api := r.Group("/api")
	{
		api.POST("/proposals", handlers.CreateProposal)
		api.GET("/proposals/:token", handlers.GetProposal)
		api.GET("/proposals/:token/status", handlers.GetProposalStatus)
		api.GET("/proposals/:token/wait", handlers.GetProposalWait)
		api.GET("/proposals/:token/stats", handlers.GetProposalStats)
		api.POST("/proposals/:token/response", handlers.SubmitResponse)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	log.Printf("🚀 Listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
