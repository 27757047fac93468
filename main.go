package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bootcamper/internal/config"
	"bootcamper/internal/geocode"
	api "bootcamper/internal/http"
	"bootcamper/internal/http/handlers"
	"bootcamper/internal/logging"
	"bootcamper/internal/mailer"
	"bootcamper/internal/repositories"
	"bootcamper/internal/services"
	"bootcamper/internal/storage"
	"bootcamper/internal/store"
	"bootcamper/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := store.Connect(ctx, store.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	}, logger)
	if err != nil {
		logger.Fatal("connect store", zap.Error(err))
	}
	defer func() { _ = db.Close(context.Background()) }()

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	bootcampRepo := repositories.NewBootcampRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	userRepo := repositories.NewUserRepository(db)

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpire)

	var mail mailer.Sender
	if cfg.SMTPHost != "" {
		mail, err = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailFrom,
		})
		if err != nil {
			logger.Fatal("init mailer", zap.Error(err))
		}
	} else {
		mail = mailer.LogSender{Log: logger}
		logger.Warn("no SMTP host configured, reset emails go to the log")
	}

	bootcampSvc := &services.BootcampService{
		Bootcamps: bootcampRepo,
		Courses:   courseRepo,
		Reviews:   reviewRepo,
		Geocoder:  geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderKey),
		Photos:    storage.NewPhotoStore(cfg.UploadDir, cfg.MaxUploadSize),
		Log:       logger,
	}
	courseSvc := &services.CourseService{Courses: courseRepo, Bootcamps: bootcampRepo, Log: logger}
	reviewSvc := &services.ReviewService{Reviews: reviewRepo, Bootcamps: bootcampRepo, Log: logger}
	userSvc := &services.UserService{Users: userRepo, Log: logger}
	authSvc := &services.AuthService{Users: userRepo, Tokens: tokens, Mail: mail, Log: logger}
	reportSvc := services.ReportService{
		Loader: services.NewBootcampReportLoader(bootcampRepo, courseRepo, reviewRepo),
	}

	r := api.NewRouter(api.Deps{
		Log:         logger,
		Tokens:      tokens,
		Users:       userRepo,
		CORSOrigins: cfg.CORSOrigins,

		System:    handlers.SystemHandler{Ping: db.Ping},
		Auth:      &handlers.AuthHandler{Svc: authSvc, CookieExpire: cfg.CookieExpire, CookieSecure: cfg.CookieSecure},
		Bootcamps: &handlers.BootcampHandler{Svc: bootcampSvc, Reports: reportSvc},
		Courses:   &handlers.CourseHandler{Svc: courseSvc},
		Reviews:   &handlers.ReviewHandler{Svc: reviewSvc},
		Accounts:  &handlers.UserHandler{Svc: userSvc},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
