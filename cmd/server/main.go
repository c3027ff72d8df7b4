package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/pawnshop/internal/config"
	"github.com/Skotchmaster/pawnshop/internal/es"
	"github.com/Skotchmaster/pawnshop/internal/handlers"
	"github.com/Skotchmaster/pawnshop/internal/imagestore"
	"github.com/Skotchmaster/pawnshop/internal/logging"
	authmw "github.com/Skotchmaster/pawnshop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/pawnshop/internal/middleware/logging"
	"github.com/Skotchmaster/pawnshop/internal/mykafka"
	"github.com/Skotchmaster/pawnshop/internal/service/session"
	httpserver "github.com/Skotchmaster/pawnshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	if len(jwtSecret) == 0 {
		log.Fatal("JWT_SECRET is not set")
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	images, err := imagestore.New(configuration.UPLOAD_DIR)
	if err != nil {
		log.Fatal(err)
	}

	sessions := &session.Service{DB: db, JWTSecret: jwtSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Static("/uploads", configuration.UPLOAD_DIR)

	deps := httpserver.Deps{
		DB:              db,
		Auth:            &authmw.Middleware{Sessions: sessions},
		AuthHandler:     &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: prod},
		CustomerHandler: &handlers.CustomerHandler{DB: db, Producer: prod},
		EmployeeHandler: &handlers.EmployeeHandler{DB: db, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, Index: "products", Images: images},
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.ProductHandler.ES = esClient
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
