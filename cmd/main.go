package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chirper/config"
	"chirper/internal/application"
	"chirper/internal/infrastructure/mongodb"
	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
	"chirper/internal/interface/ws"
	"chirper/internal/router"
	"chirper/internal/router/modules"
	"chirper/pkg/helpers"
	"chirper/pkg/validation"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		logger.Fatalf("mongodb connect: %v", err)
	}
	defer func() { _ = db.Close(ctx) }()
	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("ensure indexes: %v", err)
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	var mailPub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		mailPub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.Fatalf("rabbitmq connect: %v", err)
		}
		defer mailPub.Close()
	} else {
		logger.Warn("RABBITMQ_URL not set; email dispatch disabled")
	}

	esClient, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Warnf("elasticsearch unavailable, user search disabled: %v", err)
	}

	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.Warnf("gcs unavailable, avatar upload disabled: %v", err)
	}
	if gcsClient != nil {
		defer func() { _ = gcsClient.Close() }()
	}

	// Repositories.
	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	roomRepo := mongodb.NewRoomRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	tweetRepo := mongodb.NewTweetRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	fileRepo := mongodb.NewFileRepository(db)

	// Services.
	userSvc := application.NewUserService(userRepo, tokenRepo, logger, esClient, cfg.ESUsersIndex, gcsClient, cfg.GCSBucket)
	var enqueuer application.EmailEnqueuer
	if mailPub != nil {
		enqueuer = mailPub
	}
	authSvc := application.NewAuthService(userRepo, tokenRepo, jwtManager, enqueuer, userSvc, logger, cfg.FrontendURL, cfg.MailSendEnabled)
	tweetSvc := application.NewTweetService(tweetRepo, commentRepo, userRepo, logger)
	commentSvc := application.NewCommentService(commentRepo, tweetRepo, logger)
	roomSvc := application.NewRoomService(roomRepo, messageRepo, userRepo, logger)
	chatSvc := application.NewChatService(userRepo, roomRepo, messageRepo, logger)
	uploadSvc := application.NewUploadService(fileRepo, logger, cfg.UploadDir)

	// Engine and global middleware.
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderAccessToken, middleware.HeaderRefreshToken},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderAccessToken, middleware.HeaderRefreshToken},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	reg.Use(middleware.Principal(jwtManager, userRepo))
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), rdb))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), rdb))
	reg.Add(modules.NewTweetModule(handlers.NewTweetHandler(tweetSvc, logger), handlers.NewCommentHandler(commentSvc, logger), rdb))
	reg.Add(modules.NewCommentModule(handlers.NewCommentHandler(commentSvc, logger), rdb))
	reg.Add(modules.NewRoomModule(handlers.NewRoomHandler(roomSvc, logger), rdb))
	reg.Add(modules.NewUploadModule(handlers.NewUploadHandler(uploadSvc, logger), rdb))
	reg.Add(modules.NewDebugModule(rdb))
	reg.RegisterAll()

	// Websocket gateway lives outside the /api/v1 group.
	gateway := ws.NewGateway(ws.NewHub(), chatSvc, logger, nil)
	r.GET("/ws", gateway.Handle)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
