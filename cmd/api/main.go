package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/hbenali/creditbook/internal/config"
	"github.com/hbenali/creditbook/internal/handler"
	"github.com/hbenali/creditbook/internal/middleware"
	"github.com/hbenali/creditbook/internal/repository"
	"github.com/hbenali/creditbook/internal/scheduler"
	"github.com/hbenali/creditbook/internal/service"
	"github.com/hbenali/creditbook/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, sender)
	h := handler.NewHandler(svc)

	// Reminder scheduler
	sched := scheduler.NewScheduler(svc, logger, cfg)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/track/{code}", h.Track).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	authRouter.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	authRouter.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	authRouter.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")
	authRouter.HandleFunc("/customers/{id}/access-code", h.RegenerateAccessCode).Methods("POST")
	authRouter.HandleFunc("/customers/{id}/risk", h.CustomerRisk).Methods("GET")
	authRouter.HandleFunc("/customers/{id}/recommendation", h.RecommendedCredit).Methods("GET")
	authRouter.HandleFunc("/customers/{id}/statement", h.Statement).Methods("GET")
	authRouter.HandleFunc("/credits", h.CreateCredit).Methods("POST")
	authRouter.HandleFunc("/credits", h.ListCredits).Methods("GET")
	authRouter.HandleFunc("/credits/{id}", h.DeleteCredit).Methods("DELETE")
	authRouter.HandleFunc("/credits/{id}/payments", h.RecordPayment).Methods("POST")
	authRouter.HandleFunc("/credits/{id}/increases", h.AddCreditIncrease).Methods("POST")
	authRouter.HandleFunc("/payments", h.ListPayments).Methods("GET")
	authRouter.HandleFunc("/increases", h.ListCreditIncreases).Methods("GET")
	authRouter.HandleFunc("/predictions", h.Predictions).Methods("GET")
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	authRouter.HandleFunc("/store", h.GetStore).Methods("GET")
	authRouter.HandleFunc("/store", h.SaveStore).Methods("PUT")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}
