package main

import (
	"Quizrush/config"
	battle_constants "Quizrush/constants/battle"
	"Quizrush/middleware"
	"Quizrush/routes"
	battle "Quizrush/services/battle"
	"Quizrush/services/quiz"
	"Quizrush/services/redis"
	"Quizrush/services/rewards"
	"Quizrush/services/socket_io"
	socketio_types "Quizrush/services/socket_io/types"
	"Quizrush/sync"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Quizrush API
// @version 1.0
// @description Gin-Gonic server for the Quizrush realtime quiz battle API
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	// The socket server doubles as the engine's notifier, so it is built
	// before the registry and started after it
	sio := socketio_types.NewSocketServer()

	registry := battle.NewRegistry(
		redisClient,
		sio,
		quiz.NewProvider(gormDB),
		rewards.NewLedger(gormDB),
		sync.NewSyncManager(sqlDB),
	)

	sweeperStop := make(chan struct{})
	defer close(sweeperStop)
	registry.StartSweeper(battle_constants.IdleSweepInterval, sweeperStop)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, gormDB, sqlDB, redisClient, registry)

	(*socket_io.MySocketServer)(sio).Start(r, gormDB, redisClient, registry)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" && os.Getenv("USE_HTTPS") == "true" {
		port = "443"
	} else if port == "" {
		port = "8080"
	}

	if os.Getenv("USE_HTTPS") == "true" {
		// SSL certificate configuration for HTTPS
		certFile := os.Getenv("TLS_CERT_FILE")
		keyFile := os.Getenv("TLS_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
}
