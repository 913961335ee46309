package config

import (
	"context"
	"errors"
	"os"
	"time"

	"stillhouse/domain"
	"stillhouse/internal/api/handlers"
	"stillhouse/internal/api/routes"
	"stillhouse/internal/middleware"
	"stillhouse/internal/utils"
	"stillhouse/internal/utils/mailing"
	"stillhouse/internal/utils/storage"
	"stillhouse/pkg/dictation"
	"stillhouse/pkg/events"
	"stillhouse/pkg/export"
	"stillhouse/pkg/inventory"
	"stillhouse/pkg/jwt"
	"stillhouse/pkg/logbook"
	"stillhouse/pkg/material"
	"stillhouse/pkg/production"
	"stillhouse/pkg/realtime"
	"stillhouse/pkg/recipe"
	"stillhouse/pkg/session"
	"stillhouse/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const sessionReapInterval = time.Minute

// App is the HTTP server plus the background pieces it owns.
type App struct {
	Fiber    *fiber.App
	Broker   *realtime.Broker
	Sessions *session.Manager

	logFile   *os.File
	redis     *redis.Client
	publisher events.Publisher
	log       *zap.Logger
}

// Run blocks until ctx is done. It reaps expired sessions and relays change
// notifications from other instances when Redis is configured.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Sessions.Run(ctx, sessionReapInterval)
		return nil
	})
	g.Go(func() error {
		err := a.Broker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

func (a *App) Close() error {
	a.Sessions.CloseAll()
	errs := []error{a.publisher.Close()}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// NewApp wires the API. A nil db runs every store in memory, which keeps no
// data across restarts.
func NewApp(ctx context.Context, db *gorm.DB, log *zap.Logger) (*App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:           "stillhouse",
		EnablePrintRoutes: utils.GetConfig("ENV") == "development",
	})
	validator := utils.Validate
	a := &App{Fiber: app, log: log}

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	a.logFile = file
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
	}))

	// redis is optional; without it revocations and change fanout stay in process
	var fanout realtime.Fanout
	denylist := jwt.NewMemoryDenylist()
	if url := utils.GetConfig("REDIS_URL"); url != "" {
		client, err := ConnectRedis(ctx, url)
		if err != nil {
			log.Warn("redis unavailable, continuing without it", zap.Error(err))
		} else {
			a.redis = client
			fanout = realtime.NewRedisFanout(client, log)
			denylist = jwt.NewRedisDenylist(client)
		}
	}

	broker := realtime.NewBroker(fanout, log)
	sessions := session.NewManager(broker, log)
	a.Broker, a.Sessions = broker, sessions

	a.publisher = events.NewPublisher(utils.GetConfig("KAFKA_BROKERS"), utils.GetConfig("KAFKA_TOPIC"), log)

	var s3 storage.AwsS3
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		client, err := storage.NewAwsS3(ctx)
		if err != nil {
			log.Warn("s3 unavailable, export upload disabled", zap.Error(err))
		} else {
			s3 = client
		}
	}

	var completer dictation.Completer
	if key := utils.GetConfig("GEMINI_API_KEY"); key != "" {
		completer, err = dictation.NewGeminiCompleter(ctx, key, utils.GetConfig("GEMINI_MODEL"))
		if err != nil {
			log.Warn("gemini unavailable, dictation disabled", zap.Error(err))
			completer = nil
		}
	}

	// Repository
	var (
		userRepository       user.UserRepository
		inventoryRepository  inventory.InventoryRepository
		recipeRepository     recipe.RecipeRepository
		materialRepository   material.MaterialRepository
		productionRepository production.ProductionRepository
	)
	if db != nil {
		userRepository = user.NewUserRepository(db)
		inventoryRepository = inventory.NewInventoryRepository(db)
		recipeRepository = recipe.NewRecipeRepository(db)
		materialRepository = material.NewMaterialRepository(db)
		productionRepository = production.NewProductionRepository(db)
	} else {
		log.Warn("running with in-memory storage")
		userRepository = user.NewMemoryUserRepository()
		inventoryRepository = inventory.NewMemoryInventoryRepository()
		recipeRepository = recipe.NewMemoryRecipeRepository()
		materialRepository = material.NewMemoryMaterialRepository()
		productionRepository = production.NewMemoryProductionRepository()
	}

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, denylist, sessions, log)

	var alerter inventory.LowStockAlerter
	if mailing.LoadMailConfig().Configured() {
		alerter = inventory.NewMailAlerter(userService.GetEmail, mailing.SendMail, log)
	} else {
		alerter = inventory.NewMailAlerter(nil, nil, log)
	}

	inventoryService := inventory.NewInventoryService(inventoryRepository, broker, alerter, log)
	recipeService := recipe.NewRecipeService(recipeRepository, broker, log)
	materialService := material.NewMaterialService(materialRepository, broker, log)
	productionService := production.NewProductionService(
		productionRepository,
		recipeRepository,
		materialRepository,
		inventoryService,
		broker,
		a.publisher,
		log,
	)
	logbookService := logbook.NewLogbookService(productionRepository)
	exportService := export.NewExportService(logbookService, s3, log)
	dictationService := dictation.NewDictationService(completer, log)

	registerCollections(broker, inventoryService, recipeService, materialService, logbookService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, sessions, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	materialHandler := handlers.NewMaterialHandler(materialService, validator)
	productionHandler := handlers.NewProductionHandler(productionService, validator)
	logbookHandler := handlers.NewLogbookHandler(logbookService, exportService, validator)
	dictationHandler := handlers.NewDictationHandler(dictationService, validator)
	streamHandler := handlers.NewStreamHandler(sessions, log)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		InventoryHandler:  inventoryHandler,
		RecipeHandler:     recipeHandler,
		MaterialHandler:   materialHandler,
		ProductionHandler: productionHandler,
		LogbookHandler:    logbookHandler,
		DictationHandler:  dictationHandler,
		StreamHandler:     streamHandler,
		Middleware:        middleware.NewMiddleware(denylist, sessions, log),
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return a, nil
}

func registerCollections(
	broker *realtime.Broker,
	inventoryService inventory.InventoryService,
	recipeService recipe.RecipeService,
	materialService material.MaterialService,
	logbookService logbook.LogbookService,
) {
	broker.Register(domain.CollectionInventory, func(ctx context.Context, userID string) (any, error) {
		return inventoryService.GetActiveItems(ctx, userID)
	})
	broker.Register(domain.CollectionRecipes, func(ctx context.Context, userID string) (any, error) {
		return recipeService.GetRecipes(ctx, userID)
	})
	broker.Register(domain.CollectionMaterialDefinitions, func(ctx context.Context, userID string) (any, error) {
		return materialService.GetDefinitions(ctx, userID)
	})
	broker.Register(domain.CollectionDistillationLogs, func(ctx context.Context, userID string) (any, error) {
		return logbookService.GetDistillationLogs(ctx, userID)
	})
	broker.Register(domain.CollectionBottlingLogs, func(ctx context.Context, userID string) (any, error) {
		return logbookService.GetBottlingLogs(ctx, userID)
	})
}
