package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "pharmacy_delivery_service/docs"
	directoryapp "pharmacy_delivery_service/internal/directory/app"
	directorydomain "pharmacy_delivery_service/internal/directory/domain"
	directoryrepo "pharmacy_delivery_service/internal/directory/repository"
	"pharmacy_delivery_service/internal/identity/app"
	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/internal/identity/repository"
	"pharmacy_delivery_service/internal/identity/router"
	"pharmacy_delivery_service/pkg/config"
	"pharmacy_delivery_service/pkg/database"
	"pharmacy_delivery_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.IdentityService, config.EnvConfig.IdentityServiceLogPath)
	cfg := config.LoadConfig[config.Identity](config.EnvConfig.IdentityService, config.EnvConfig.IdentityServiceYAMLPath)

	sqlParams := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", sqlParams)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.RedisIdentity.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	accountRepo := repository.NewAccountRepository(pool)
	vendorRepo := directoryrepo.NewVendorRepository(pool)
	sessionRepo := database.NewRedisRepository[domain.AccountSession](redisClient)

	directoryUC := directoryapp.NewDirectoryUseCase(vendorRepo)
	if err := directoryUC.SeedVendors(context.Background(), directorydomain.DefaultVendors()); err != nil {
		logger.Log.Fatal(fmt.Sprintf("seed vendors err : %v", err))
	}

	usecase := app.NewIdentityUseCase(accountRepo, cfg.SessionTTL*time.Minute, sessionRepo)
	resolver := app.NewResolver(accountRepo, directoryUC)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.IdentityServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewIdentityHandler(usecase, resolver, directoryUC))

	port := ":" + cfg.Port
	log.Printf("Identity Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
