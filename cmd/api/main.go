package main

import (
	"context"
	"fmt"
	"log"

	common_api "github.com/sarobidyBryan/signalement/internal/common/api"
	"github.com/sarobidyBryan/signalement/internal/config"
	"github.com/sarobidyBryan/signalement/internal/database"
	"github.com/sarobidyBryan/signalement/internal/features/assignation"
	"github.com/sarobidyBryan/signalement/internal/features/company"
	"github.com/sarobidyBryan/signalement/internal/features/configuration"
	"github.com/sarobidyBryan/signalement/internal/features/docstore"
	"github.com/sarobidyBryan/signalement/internal/features/identity"
	"github.com/sarobidyBryan/signalement/internal/features/report"
	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/sync"
	"github.com/sarobidyBryan/signalement/internal/features/synclog"
	"github.com/sarobidyBryan/signalement/internal/features/user"
	"github.com/sarobidyBryan/signalement/internal/logger"
	"github.com/sarobidyBryan/signalement/internal/middleware"
	"github.com/sarobidyBryan/signalement/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// ConfigureJWT seeds the token signing secret before any route handles traffic
func ConfigureJWT(cfg *config.Config) {
	utils.SetJWTSecret(cfg.JWTSecret)
}

func main() {
	app := fx.New(
		fx.Provide(
			// Core infrastructure
			config.LoadConfig,
			NewFiberServer,
			database.NewPostgres,
			database.NewMongo,
			logger.NewLogger,

			// Document store and identity provider
			docstore.NewGateway,
			identity.NewHTTPProvider,
			identity.NewProvisioner,

			// Repositories
			synclog.NewSyncLogRepository,
			configuration.NewConfigurationRepository,
			company.NewCompanyRepository,
			status.NewStatusRepository,
			user.NewUserRepository,
			report.NewReportRepository,
			assignation.NewAssignationRepository,

			// Services
			synclog.NewSyncLogService,
			sync.NewPushService,
			sync.NewPullService,
			sync.NewSyncService,

			// Controllers
			synclog.NewSyncLogController,
			sync.NewSyncController,

			// API routes
			AsRoute(synclog.NewSyncLogApi),
			AsRoute(sync.NewSyncApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureJWT,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			sync.NewScheduler,
		),
	)

	app.Run()
}
