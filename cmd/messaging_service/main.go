package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "pharmacy_delivery_service/docs"
	"pharmacy_delivery_service/internal/chat/app"
	"pharmacy_delivery_service/internal/chat/repository"
	"pharmacy_delivery_service/internal/chat/router"
	directoryapp "pharmacy_delivery_service/internal/directory/app"
	directoryrepo "pharmacy_delivery_service/internal/directory/repository"
	identityapp "pharmacy_delivery_service/internal/identity/app"
	identityrepo "pharmacy_delivery_service/internal/identity/repository"
	"pharmacy_delivery_service/pkg/config"
	"pharmacy_delivery_service/pkg/database"
	"pharmacy_delivery_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MessagingService, config.EnvConfig.MessagingServiceLogPath)
	cfg := config.LoadConfig[config.Messaging](config.EnvConfig.MessagingService, config.EnvConfig.MessagingServiceYAMLPath)

	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

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
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.BucketName,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect kafka err : %v", err))
	}
	defer kafkaWriter.Close()

	convRepo := repository.NewMongoConversationRepository(mongo.Database)
	wmRepo := repository.NewRedisWatermarkRepository(database.NewRedisRepository[int64](redisClient))
	pubsub := repository.NewRedisPubSub(redisClient)
	events := repository.NewKafkaEventPublisher(kafkaWriter)
	attachments := repository.NewMinIOAttachmentRepository(minioClient)

	accountRepo := identityrepo.NewAccountRepository(pool)
	vendorRepo := directoryrepo.NewVendorRepository(pool)
	directoryUC := directoryapp.NewDirectoryUseCase(vendorRepo)

	convUC := app.NewConversationUseCase(convRepo, wmRepo, pubsub, events)
	unreadUC := app.NewUnreadUseCase(wmRepo)
	inboxUC := app.NewInboxUseCase(convUC, unreadUC, directoryUC)

	resolver := identityapp.NewResolver(accountRepo, directoryUC)
	// fold history kept under a pre-link generated id onto the auth uid
	resolver.AttachMigrator(convUC)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MessagingServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	chatHandler := app.NewChatHandler(convUC, inboxUC, unreadUC, resolver, attachments)
	chatWebsocket := app.NewChatWebsocketHandler(convUC, inboxUC, unreadUC, resolver, pubsub)
	router.RegisterRoutes(r, chatHandler, chatWebsocket)

	port := ":" + cfg.Port
	log.Printf("Messaging Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
