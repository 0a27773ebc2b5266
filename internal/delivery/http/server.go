// Package http wires the route generator orchestrator behind a fiber
// HTTP server, grounded on the teacher's internal/delivery/http/server.go.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	"github.com/triploop/routecore/internal/delivery/http/handler"
	"github.com/triploop/routecore/internal/delivery/http/middleware"
)

// Server is the route core's HTTP surface: one annotated loop-route
// endpoint plus health and swagger routes.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	routeHandler *handler.RouteHandler
}

func NewServer(cfg *config.Config, logger *zap.Logger, routeHandler *handler.RouteHandler) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Route Discovery Core",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:          app,
		config:       cfg,
		logger:       logger,
		routeHandler: routeHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/routes/loop", s.routeHandler.GenerateLoop)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler catches fiber-level errors (e.g. body-parser
// failures before a handler gets a chance to run) that never reach
// utils.SendError.
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("unhandled http error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
