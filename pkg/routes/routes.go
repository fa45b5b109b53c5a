package routes

import (
	"context"
	"errors"
	"net/http"

	"MyPlants/internal/config"
	"MyPlants/internal/logger"
	"MyPlants/internal/mail"
	"MyPlants/internal/notification"
	"MyPlants/internal/plant"
	"MyPlants/internal/settings"
	"MyPlants/internal/vault"
	"MyPlants/pkg/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var Modules = fx.Options(
	AppModules,
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

// AppModules is the full provider graph without the fx event logger.
var AppModules = fx.Options(
	CoreModules,
	PlantModules,
	NotificationModules,
	EchoModules,
)

var CoreModules = fx.Module("core",
	fx.Provide(config.NewConfig),
	fx.Provide(NewLogger),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(NewVault),
	fx.Provide(NewMetricsRegistry),
	fx.Invoke(EnsureIndexes),
)

var PlantModules = fx.Module("plants",
	fx.Provide(plant.NewRepository),
	fx.Provide(settings.NewRepository),
	fx.Provide(plantStore, settingsStore, plantLister, encrypter),
	fx.Provide(plant.NewService),
	fx.Provide(settings.NewService),
	fx.Provide(linkVerifier),
	fx.Provide(plant.NewPlantHandler),
	fx.Provide(settings.NewSettingsHandler),
)

var NotificationModules = fx.Module("notifications",
	fx.Provide(mail.NewFactory),
	fx.Provide(notification.NewLinks),
	fx.Provide(notification.NewMetrics),
	fx.Provide(settingsFinder, decrypter, channelFactory, plantSource, notifiedMarker, linkBuilder),
	fx.Provide(notification.NewResolver),
	fx.Provide(notification.NewScanner),
	fx.Provide(notification.NewDispatcher),
	fx.Provide(channelResolver, dueScanner, groupDispatcher),
	fx.Provide(notification.NewNotificationService),
	fx.Provide(cycler),
	fx.Provide(notification.NewNotificationScheduler),
	fx.Provide(notification.NewNotificationHandler),
	fx.Invoke(notification.RegisterScheduler),
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Invoke(RegisterRoutes),
)

// NewLogger builds the root logger and flushes it on shutdown.
func NewLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}

func NewVault(cfg *config.Config, log *zap.Logger) (*vault.Vault, error) {
	if cfg.UsesDevEncryptionKey() {
		log.Warn("ENCRYPTION_KEY not set, stored secrets use the development key")
	}
	return vault.New(cfg.EncryptionKey)
}

// NewMetricsRegistry returns the registry served on /metrics, with Go runtime
// and process collectors preinstalled.
func NewMetricsRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

func EnsureIndexes(lc fx.Lifecycle, db *mongo.Database, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return config.EnsureIndexes(ctx, db, log,
				config.CollectionIndexes{Collection: plant.CollectionName, Models: plant.Indexes()},
				config.CollectionIndexes{Collection: settings.CollectionName, Models: settings.Indexes()},
			)
		},
	})
}

func NewEchoServer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupMiddleware(e, cfg, log.Named("http"))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down the server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	plantHandler *plant.PlantHandler,
	settingsHandler *settings.SettingsHandler,
	notificationHandler *notification.NotificationHandler,
	reg *prometheus.Registry,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/plants", plantHandler.List)
	api.POST("/plants", plantHandler.Create)
	api.PUT("/plants/:id", plantHandler.Update)
	api.DELETE("/plants/:id", plantHandler.Delete)
	api.GET("/plants/:id/confirm", plantHandler.Confirm)

	api.GET("/settings/:userId", settingsHandler.Get)
	api.POST("/settings/:userId", settingsHandler.Update)
	api.GET("/public/:slug", settingsHandler.PublicProfile)

	api.POST("/notifications/run", notificationHandler.RunNow)
}
