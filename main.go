package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookery/config"
	"bookery/cron"
	"bookery/database"
	appointmentRepo "bookery/database/repository/appointment"
	catalogRepo "bookery/database/repository/catalog"
	"bookery/handlers"
	"bookery/middleware"
	"bookery/routes"
	"bookery/services/scheduling"
	"bookery/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAvailabilityCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catalog := catalogRepo.NewMongoCatalogRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	if mongoAppts, ok := apptRepo.(*appointmentRepo.MongoAppointmentRepo); ok {
		if err := mongoAppts.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
		}
	}

	// engine.
	engine := &scheduling.Engine{Catalog: catalog, Appointments: apptRepo}
	selector := &scheduling.Selector{Appointments: apptRepo}
	guard := &scheduling.Guard{Catalog: catalog, Appointments: apptRepo}

	bookingService := &scheduling.DefaultBookingService{
		Engine:   engine,
		Selector: selector,
		Guard:    guard,
		Catalog:  catalog,
	}

	availabilityHandler := handlers.NewAvailabilityHandler(bookingService)
	bookingHandler := handlers.NewBookingHandler(bookingService)

	routes.RegisterRoutes(router, availabilityHandler, bookingHandler)

	// Background release of stale pending holds.
	cron.InitExpiryWorker(guard)

	utils.StartHealthMonitor(utils.GetAvailabilityCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
