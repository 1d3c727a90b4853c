package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"medtracker/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"medtracker/internal/auth"
	"medtracker/internal/cache"
	"medtracker/internal/config"
	"medtracker/internal/db"
	"medtracker/internal/handler"
	"medtracker/internal/logging"
	"medtracker/internal/repository"
	"medtracker/internal/router"
	"medtracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Medicine Tracker API
// @version 1.0
// @description Session-authenticated medicine tracking API.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name sessionid
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.WithError(err).Fatal("redis init")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	medicineRepo := repository.NewMedicineRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SessionKey)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, userService, jwtService, sessionStore, cfg.SessionTTL)
	medicineService := service.NewMedicineService(medicineRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log, cfg.CookieSecure)
	medicineHandler := handler.NewMedicineHandler(medicineService, log)
	metaHandler := handler.NewMetaHandler(router.BasePath)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Config:          cfg,
		Log:             log,
		JWTService:      jwtService,
		AuthService:     authService,
		AuthHandler:     authHandler,
		MedicineHandler: medicineHandler,
		MetaHandler:     metaHandler,
	})

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(host, "http://"), "https://")
		swaggerURL = host + "/swagger/index.html"
	}
	log.WithField("url", swaggerURL).Info("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}
