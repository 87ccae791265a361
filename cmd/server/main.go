package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"parkscan/internal/api"
	"parkscan/internal/auth"
	"parkscan/internal/config"
	"parkscan/internal/db"
	"parkscan/internal/metrics"
	"parkscan/internal/repository"
	"parkscan/internal/service"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	loc := cfg.Location()
	collector := metrics.NewCollector()
	qr := service.NewQRCodeService()

	notifier := service.NewNotifier(service.NewProviderSender(cfg), cfg.NotifyQueueSize, collector)
	notifier.Start()

	reservationRepo := repository.NewReservationRepository(conn)
	logRepo := repository.NewCheckInLogRepository(conn)
	staffRepo := repository.NewStaffAuthRepository(conn)
	jobRepo := repository.NewJobRepository(conn)

	reservationSvc := service.NewReservationService(reservationRepo, logRepo, qr, cfg.LotCapacities, loc, collector)
	webhookSvc := service.NewWebhookService(reservationRepo, logRepo, qr, notifier, cfg.LotCapacities, collector)
	authSvc := service.NewStaffAuthService(staffRepo, cfg.JWTSecret)
	reminderSvc := service.NewReminderService(jobRepo, notifier, qr, loc)

	if cfg.EnableTestLogin {
		if err := authSvc.SeedTestUser(cfg.TestLoginEmail, cfg.TestLoginPassword); err != nil {
			log.Printf("Failed to seed test login: %v", err)
		}
	}

	authHandler := api.NewAuthHandler(authSvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)
	webhookHandler := api.NewWebhookHandler(webhookSvc, cfg.WebhookRateLimit)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")
	r.Handle("/metrics", collector.Handler()).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify", authHandler.Verify).Methods("GET")
	r.HandleFunc("/api/webflow/order", webhookHandler.HandleOrder).Methods("POST")

	// Staff endpoints (protected)
	staff := r.PathPrefix("/api/reservations").Subrouter()
	staff.Use(auth.Middleware(cfg.JWTSecret))
	staff.HandleFunc("", reservationHandler.List).Methods("GET")
	staff.HandleFunc("/stats", reservationHandler.Stats).Methods("GET")
	staff.HandleFunc("/recent", reservationHandler.Recent).Methods("GET")
	staff.HandleFunc("/qr/{token}", reservationHandler.GetByQRToken).Methods("GET")
	staff.HandleFunc("/{id}/log", reservationHandler.LogEvent).Methods("POST")
	staff.HandleFunc("/{id}/logs", reservationHandler.GetLogs).Methods("GET")
	staff.HandleFunc("/{id}", reservationHandler.Update).Methods("PUT")

	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.ReminderCronSpec, func() {
		if err := reminderSvc.SendDailyReminders(); err != nil {
			log.Printf("Reminder job failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	scheduler.Start()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.CORSAllowedOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(r)

	log.Printf("Server running on port %s", cfg.Port)
	srvErr := http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, corsHandler))

	// log.Fatal would skip these; stop the cron and drain the
	// notification queue before exiting.
	scheduler.Stop()
	notifier.Close()
	log.Fatalf("Server stopped: %v", srvErr)
}
