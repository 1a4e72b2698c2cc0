package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/auth"
	"github.com/mozhilabs/chat-server/internal/cache"
	"github.com/mozhilabs/chat-server/internal/config"
	"github.com/mozhilabs/chat-server/internal/database"
	"github.com/mozhilabs/chat-server/internal/events"
	"github.com/mozhilabs/chat-server/internal/handlers"
	"github.com/mozhilabs/chat-server/internal/logger"
	"github.com/mozhilabs/chat-server/internal/repository"
	"github.com/mozhilabs/chat-server/internal/routes"
	"github.com/mozhilabs/chat-server/internal/service"
	"github.com/mozhilabs/chat-server/internal/translate"
	"github.com/mozhilabs/chat-server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatalw("server exited", "error", err)
	}
}

func run(cfg *config.Config, zlog *zap.SugaredLogger) error {
	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, zlog)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	userRepo := repository.NewMongoUserRepo(db, "users")
	roomRepo := repository.NewMongoRoomRepo(db, "rooms")
	messageRepo := repository.NewMongoMessageRepo(db, "messages")

	engine, err := translate.ParseEngineType(cfg.Translate.Engine)
	if err != nil {
		return err
	}
	translator, err := translate.NewTranslator(translate.Config{
		Engine:       engine,
		GeminiAPIKey: cfg.Translate.GeminiAPIKey,
		GeminiModel:  cfg.Translate.GeminiModel,
	}, zlog)
	if err != nil {
		return err
	}
	autoTr := translate.NewAutoTranslator(translator, engine, zlog)
	zlog.Infow("translation engine ready", "engine", engine)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent, zlog)
	defer publisher.Close()

	tokens := auth.NewManager(cfg.App.JWTSecret, cfg.JWTTTL)
	presence := cache.NewPresence(rdb)
	hub := ws.NewHub(zlog)

	authSvc := service.NewAuthService(userRepo, tokens, zlog)
	roomSvc := service.NewRoomService(roomRepo, userRepo, hub, zlog)
	messageSvc := service.NewMessageService(messageRepo, roomRepo, userRepo, autoTr, hub, publisher, zlog)

	wsServer := ws.NewServer(hub, tokens, messageSvc, presence, zlog)

	app := fiber.New(fiber.Config{
		AppName:      "chat-server",
		ErrorHandler: errorHandler(zlog),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger(zlog))

	routes.Register(app, routes.Deps{
		Tokens:   tokens,
		Auth:     handlers.NewAuthHandler(authSvc, zlog),
		Rooms:    handlers.NewRoomHandler(roomSvc, zlog),
		Messages: handlers.NewMessageHandler(messageSvc, zlog),
		Users:    handlers.NewUserHandler(userRepo, presence, zlog),
		WS:       wsServer,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		zlog.Infow("listening", "addr", addr, "env", cfg.App.Env)
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zlog.Infow("shutting down", "signal", sig.String())
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func errorHandler(zlog *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			zlog.Errorw("unhandled error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

func requestLogger(zlog *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		zlog.Infow("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).String(),
		)
		return err
	}
}
