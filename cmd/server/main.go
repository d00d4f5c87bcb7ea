package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Masaicker/GamePact/internal/config"
	"github.com/Masaicker/GamePact/internal/database"
	"github.com/Masaicker/GamePact/internal/handlers"
	"github.com/Masaicker/GamePact/internal/jobs"
	"github.com/Masaicker/GamePact/internal/middleware"
	"github.com/Masaicker/GamePact/internal/services"
	"github.com/Masaicker/GamePact/internal/ws"

	_ "github.com/Masaicker/GamePact/docs"
)

// @title           GamePact API
// @version         1.0
// @description     API for scheduling gaming sessions with voting, attendance tracking and a reputation point economy
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	db := database.Connect(cfg)
	database.AutoMigrate(db)
	database.SeedBadges(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	scoreService := services.NewScoreService(db)
	badgeService := services.NewBadgeService(db)
	sessionService := services.NewSessionService(db, scoreService)
	settlementService := services.NewSettlementService(db, scoreService, badgeService)
	userService := services.NewUserService(db, badgeService)
	adminService := services.NewAdminService(db, scoreService)
	presetService := services.NewPresetGameService(db)
	steamService := services.NewSteamService(time.Duration(cfg.SteamCacheTTLHours) * time.Hour)

	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(sessionService, settlementService, hub)
	userHandler := handlers.NewUserHandler(userService)
	badgeHandler := handlers.NewBadgeHandler(badgeService)
	adminHandler := handlers.NewAdminHandler(adminService)
	presetHandler := handlers.NewPresetGameHandler(presetService)
	steamHandler := handlers.NewSteamHandler(steamService)
	wsHandler := handlers.NewWSHandler(hub, authService)

	scheduler := jobs.NewScheduler(adminService, steamService)
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(authService), authHandler.Me)
			auth.PUT("/password", middleware.JWTAuth(authService), authHandler.ChangePassword)
		}

		users := api.Group("/users")
		users.Use(middleware.JWTAuth(authService))
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.GET("/:id/history", userHandler.History)
			users.GET("/:id/badges", badgeHandler.UserBadges)
		}

		sessions := api.Group("/sessions")
		sessions.Use(middleware.JWTAuth(authService))
		{
			sessions.GET("", sessionHandler.List)
			sessions.GET("/history", sessionHandler.History)
			sessions.POST("", sessionHandler.Create)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.PUT("/:id", sessionHandler.Update)
			sessions.DELETE("/:id", sessionHandler.Delete)
			sessions.POST("/:id/vote", sessionHandler.Vote)
			sessions.POST("/:id/excuse", sessionHandler.Excuse)
			sessions.POST("/:id/settle", sessionHandler.Settle)
			sessions.POST("/:id/cancel", sessionHandler.Cancel)
		}

		badges := api.Group("/badges")
		badges.Use(middleware.JWTAuth(authService))
		{
			badges.GET("", badgeHandler.List)
		}

		presetGames := api.Group("/preset-games")
		presetGames.Use(middleware.JWTAuth(authService))
		{
			presetGames.GET("", presetHandler.List)
			presetGames.POST("", presetHandler.Create)
			presetGames.PUT("/:id", presetHandler.Update)
			presetGames.DELETE("/:id", presetHandler.Delete)
			presetGames.POST("/import", presetHandler.Import)
		}

		steam := api.Group("/steam")
		steam.Use(middleware.JWTAuth(authService))
		{
			steam.GET("/:appid", steamHandler.GameArtwork)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService), middleware.AdminOnly())
		{
			admin.POST("/invites", adminHandler.GenerateInvites)
			admin.GET("/invites", adminHandler.ListInvites)
			admin.DELETE("/invites/:id", adminHandler.DeleteInvite)
			admin.POST("/users/:id/score", adminHandler.AdjustScore)
			admin.PUT("/users/:id/password", adminHandler.ResetPassword)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.DELETE("/scores/:id", adminHandler.DeleteScoreEntry)
			admin.GET("/audit", adminHandler.AuditLogs)
			admin.GET("/backup", adminHandler.ExportBackup)
			admin.GET("/ledger/export", adminHandler.ExportLedger)
		}
	}

	log.Infof("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
