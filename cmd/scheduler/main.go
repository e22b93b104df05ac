package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/segyhp/circulation-desk/internal/catalog"
	"github.com/segyhp/circulation-desk/internal/config"
	"github.com/segyhp/circulation-desk/internal/logger"
	"github.com/segyhp/circulation-desk/internal/repository"
	"github.com/segyhp/circulation-desk/internal/scheduler"
	"github.com/segyhp/circulation-desk/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting circulation scheduler", "env", cfg.App.Env)

	c, err := catalog.Open(cfg.App.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalogue: %v", err)
	}

	// Initialize repositories
	bookRepo := repository.NewBookRepository()
	loanRepo := repository.NewLoanRepository()
	memberRepo := repository.NewMemberRepository(repository.WithMemberLimits(cfg.GetMemberLimits()))
	if err := catalog.Seed(c, bookRepo, memberRepo, loanRepo); err != nil {
		log.Fatalf("Failed to seed catalogue: %v", err)
	}

	circulationService := service.NewCirculationService(bookRepo, loanRepo, memberRepo, cfg)

	s, err := scheduler.NewScheduler(cfg, circulationService)
	if err != nil {
		log.Fatalf("Failed to schedule jobs: %v", err)
	}
	logger.Info("catalogue seeded", "books", len(c.Books), "members", len(c.Members), "loans", len(c.Loans))

	// catch up on loans that fell due while the process was down
	s.RunOverdueSweep()
	s.Start()
	logger.Info("next overdue sweep", "at", s.NextRun())

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.Stop()
}
