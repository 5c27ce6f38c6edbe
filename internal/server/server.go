// Package server wires configuration, storage, services and HTTP routes together.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"accountd/internal/config"
	"accountd/internal/database"
	"accountd/internal/handlers"
	"accountd/internal/middleware"
	"accountd/internal/repositories"
	"accountd/internal/services"
	"accountd/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Services bundles the application services built from one Config.
type Services struct {
	Users  *services.UserService
	Auth   *services.AuthService
	Tokens *services.TokenService
}

// NewServices builds the service graph over db. events may be nil.
func NewServices(cfg config.Config, db *gorm.DB, events services.EventPublisher) (*Services, error) {
	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	userRepo := repositories.NewGORMUserRepository(db)
	users := services.NewUserService(userRepo, services.NewBcryptHasher(cfg.BcryptCost), events)
	auth, err := services.NewAuthService(users, tokens)
	if err != nil {
		return nil, err
	}
	return &Services{Users: users, Auth: auth, Tokens: tokens}, nil
}

// NewApp builds the Fiber application and its routes.
func NewApp(cfg config.Config, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "accountd",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	handlers.NewHealthHandler().RegisterRoutes(app)
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(app)
	handlers.NewUserHandler(svc.Users).RegisterRoutes(app, middleware.AuthRequired(svc.Auth))

	return app
}

// corsConfig allows any origin when none are configured. Credentials are only
// allowed with an explicit origin list.
func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		return cors.Config{AllowOrigins: "*"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		slog.Error("unhandled request error", "request_id", c.Locals("requestid"), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}

// Server owns the HTTP app and the resources it was built on.
type Server struct {
	App *fiber.App
	cfg config.Config
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// New opens the database (migrating it when configured), connects the optional
// event broker and builds the HTTP app.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	target, err := database.ParseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.MigrateUp(target); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(ctx, target)
	if err != nil {
		return nil, err
	}

	var (
		mq     *rabbitmq.Client
		events services.EventPublisher
	)
	if cfg.RabbitMQURL != "" {
		mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		events = mq
	} else {
		slog.Info("RABBITMQ_URL not set, user events disabled")
	}

	svc, err := NewServices(cfg, db, events)
	if err != nil {
		_ = database.Close(db)
		if mq != nil {
			_ = mq.Close()
		}
		return nil, err
	}

	return &Server{
		App: NewApp(cfg, svc),
		cfg: cfg,
		db:  db,
		mq:  mq,
	}, nil
}

// Listen serves HTTP until Shutdown is called.
func (s *Server) Listen() error {
	slog.Info("server starting", "addr", s.cfg.AppPort)
	return s.App.Listen(s.cfg.AppPort)
}

// Shutdown stops accepting requests, waits for in-flight ones, then releases
// the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.App.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq close: %w", err))
		}
	}
	if err := database.Close(s.db); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	return errors.Join(errs...)
}
