package server

import (
	"context"
	"errors"

	"food-consult-bot/internal/bootstrap"
	"food-consult-bot/internal/config"
	"food-consult-bot/internal/pkg/serverutils"
	"food-consult-bot/internal/service"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "food-consult-bot",
		DisableStartupMessage: true,
	})

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger, storageUnavailable))

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func storageUnavailable(err error) (int, bool) {
	if errors.Is(err, service.ErrStorageFailure) {
		return fiber.StatusServiceUnavailable, true
	}
	return 0, false
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("HTTP", "Admin API listening", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	admin := serverutils.JwtMiddleware(cfg.App.JwtSecret)

	c.SessionController.RegisterRoutes(api)
	c.MasterController.RegisterRoutes(api, admin)
	c.HistoryController.RegisterRoutes(api, admin)
}
