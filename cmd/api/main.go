package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drivemate/drivemate/internal/pkg/config"
	"github.com/drivemate/drivemate/internal/pkg/database"
	"github.com/drivemate/drivemate/internal/pkg/geocode"
	"github.com/drivemate/drivemate/internal/pkg/health"
	"github.com/drivemate/drivemate/internal/pkg/imagestore"
	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/drivemate/drivemate/internal/pkg/middleware"
	"github.com/drivemate/drivemate/internal/pkg/nsq"
	"github.com/drivemate/drivemate/internal/pkg/server"

	paymentGateway "github.com/drivemate/drivemate/services/payment/gateway"
	paymentHandler "github.com/drivemate/drivemate/services/payment/handler"
	paymentRepository "github.com/drivemate/drivemate/services/payment/repository"
	paymentUsecase "github.com/drivemate/drivemate/services/payment/usecase"
	providerHandler "github.com/drivemate/drivemate/services/provider/handler"
	providerRepository "github.com/drivemate/drivemate/services/provider/repository"
	providerUsecase "github.com/drivemate/drivemate/services/provider/usecase"
	requestGateway "github.com/drivemate/drivemate/services/request/gateway"
	requestHandler "github.com/drivemate/drivemate/services/request/handler"
	"github.com/drivemate/drivemate/services/request/pricing"
	requestRepository "github.com/drivemate/drivemate/services/request/repository"
	requestUsecase "github.com/drivemate/drivemate/services/request/usecase"
)

func main() {
	appName := "drivemate-api"
	configPath := "config/api.env"
	configs := config.InitConfig(configPath)

	appLogger, err := logger.NewAppLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()
	logger.SetGlobalLogger(appLogger)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresClient.Close()

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer redisClient.Close()

	// Initialize NSQ producer for notifications
	producer, err := nsq.NewProducer(configs.NSQ.NSQDAddress)
	if err != nil {
		logger.Fatal("Failed to connect to NSQ", logger.Err(err))
	}
	defer producer.Stop()

	// External clients
	geocoder := geocode.NewClient(configs.Geocode)
	imageStore := imagestore.NewHTTPStore(configs.ImageStore)

	// Initialize repositories
	providerRepo := providerRepository.NewProviderRepository(configs, postgresClient.GetDB(), redisClient)
	requestRepo := requestRepository.NewRequestRepository(configs, postgresClient.GetDB())
	paymentRepo := paymentRepository.NewPaymentRepository(configs, postgresClient.GetDB())

	// Initialize gateways
	requestNotifier := requestGateway.NewNotificationGateway(producer, configs.NSQ.NotificationTopic)
	paymentNotifier := paymentGateway.NewNotificationGateway(producer, configs.NSQ.NotificationTopic)

	// Initialize usecases
	providerUC := providerUsecase.NewProviderUC(configs, providerRepo, geocoder, imageStore)
	calculator := pricing.NewCalculator(configs.Pricing)
	requestUC := requestUsecase.NewRequestUC(configs, requestRepo, providerUC, calculator, requestNotifier)
	paymentUC := paymentUsecase.NewPaymentUC(configs, paymentRepo, requestRepo, providerUC, paymentNotifier)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())

	// Register health and metrics endpoints
	health.RegisterHealthEndpoints(e, appName)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Register service routes behind JWT authentication
	api := e.Group("", middleware.JWTAuthMiddleware(configs.JWT))
	providerHandler.NewHandler(providerUC).RegisterRoutes(api)
	requestHandler.NewHandler(requestUC).RegisterRoutes(api)
	paymentHandler.NewHandler(paymentUC).RegisterRoutes(api)

	logger.Info("Starting service",
		logger.String("app", appName),
		logger.Int("port", configs.Server.Port))

	srv := server.NewGracefulServer(e, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	if err := srv.Start(); err != nil {
		logger.Fatal("Server exited with error", logger.Err(err))
	}
}
