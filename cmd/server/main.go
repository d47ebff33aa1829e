package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/config"
	"github.com/iliyamo/user-session-service/internal/database"
	"github.com/iliyamo/user-session-service/internal/handler"
	"github.com/iliyamo/user-session-service/internal/queue"
	"github.com/iliyamo/user-session-service/internal/repository"
	"github.com/iliyamo/user-session-service/internal/router"
	"github.com/iliyamo/user-session-service/internal/service"
	"github.com/iliyamo/user-session-service/internal/utils"
)

func main() {
	// Load .env for local development; in production the environment is
	// provided by the deployment.
	_ = godotenv.Load()

	cfg := config.Load() // exits before serving if a secret is missing

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	codec := utils.NewTokenCodec(
		utils.TokenConfig{Secret: cfg.AccessSecret, TTL: cfg.AccessTTL()},
		utils.TokenConfig{Secret: cfg.RefreshSecret, TTL: cfg.RefreshTTL()},
	)

	users := repository.NewUserRepo(db)
	auth := service.NewAuthService(users, codec)
	h := handler.NewAuthHandler(cfg, users, auth)

	// Redis backs the login throttle; nil disables it gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, login throttling disabled")
	}

	// Session audit trail consumer runs for the lifetime of the process.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("session consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, h, auth, codec, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
