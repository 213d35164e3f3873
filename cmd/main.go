package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ray-remotestate/smartcafe/cache"
	"github.com/ray-remotestate/smartcafe/config"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/handlers"
	"github.com/ray-remotestate/smartcafe/payments"
	"github.com/ray-remotestate/smartcafe/server"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.Init()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	if err := database.ConnectAndMigrate(config.DatabaseURL); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Println("migration is successful")

	handlers.PaymentProcessor = payments.NewClient(config.ProcessorURL, config.ProcessorKey)
	handlers.AnalyticsCache = cache.New(config.RedisAddr)

	srv := server.SetupRoutes()

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := srv.Run(":" + port); err != nil && err != http.ErrServerClosed {
			logrus.Panicf("server stopped, error: %v", err)
		}
	}()
	logrus.Printf("server listening on :%s", port)

	<-done

	logrus.Info("shutting down...")
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to shut down server cleanly")
	}
	if err := database.ShutdownDatabase(); err != nil {
		logrus.WithError(err).Error("failed to close database connection")
	}
}
