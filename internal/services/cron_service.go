package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron       *cron.Cron
	sweeperSvc *SweeperService
	logger     *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(sweeperSvc *SweeperService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:       cron.New(),
		sweeperSvc: sweeperSvc,
		logger:     logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	// Cron format: minute hour day month weekday
	// "*/5 * * * *" = every 5 minutes
	_, err := s.cron.AddFunc("*/5 * * * *", s.sweepExpiredBookingsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule booking sweep job: %w", err)
	}
	s.logger.Info("Scheduled: sweep expired bookings (every 5 minutes)")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// sweepExpiredBookingsJob cancels unpaid bookings past the payment cutoff
func (s *CronService) sweepExpiredBookingsJob() {
	start := time.Now()
	cancelled := s.sweeperSvc.RunOnce(start)
	if cancelled > 0 {
		s.logger.WithFields(logrus.Fields{
			"cancelled": cancelled,
			"duration":  time.Since(start).String(),
		}).Info("Booking sweep job finished")
	}
}
