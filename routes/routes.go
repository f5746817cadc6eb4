package routes

import (
	"Quizrush/controllers"
	"Quizrush/middleware"
	battle "Quizrush/services/battle"
	"Quizrush/services/redis"
	utils "Quizrush/utils"
	"database/sql"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, sqlDB *sql.DB,
	redisClient *redis.RedisClient, registry *battle.Registry) {
	// Controllers backed by raw SQL
	historyController := &controllers.HistoryController{DB: sqlDB}

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db))

	api.GET("/fields", controllers.GetQuizFields(db))

	// Join-eligibility pre-check, callable before the socket handshake
	api.GET("/rooms/joinable/:invite_token", controllers.GetRoomJoinable(registry))

	api.GET("/battles/:room_id", historyController.GetBattleRecord)

	api.GET("/users/:username/battles", historyController.GetUserBattleHistory)

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.GetUserPrivateInfo(db))

		authentication.POST("/rooms", controllers.CreateRoom(registry, db))
	}
}
