package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fleetreserve/internal/api"
	"fleetreserve/internal/repository"
	"fleetreserve/internal/service"
)

func main() {
	godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	jobRepo := repository.NewJobRepository(database)

	notifier := service.NewNotifyService()
	authSvc := service.NewAuthService(userRepo)
	reservationSvc := service.NewReservationService(reservationRepo, vehicleRepo, notifier)
	jobSvc := service.NewJobService(jobRepo)

	router := api.NewRouter(
		api.NewAuthHandler(authSvc),
		api.NewVehicleHandler(reservationSvc),
		api.NewReservationHandler(reservationSvc),
	)

	// Sweep elapsed reservations to completed and release idle vehicles.
	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if err := jobSvc.CompleteElapsedReservations(context.Background()); err != nil {
			log.Errorf("Completion sweep failed: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "*"
	}
	handler := handlers.CORS(
		handlers.AllowedOrigins(strings.Split(corsOrigins, ",")),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)(router)
	handler = handlers.RecoveryHandler()(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
