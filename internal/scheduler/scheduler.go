// Package scheduler runs the periodic due-date reminder job.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hbenali/creditbook/internal/config"
	"github.com/hbenali/creditbook/internal/service"
)

// Scheduler wraps the cron runner for reminder delivery
type Scheduler struct {
	cron *cron.Cron
	svc  *service.Service
	log  *logrus.Logger
	cfg  *config.Config
}

// NewScheduler creates a scheduler for the reminder job
func NewScheduler(svc *service.Service, log *logrus.Logger, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  log,
		cfg:  cfg,
	}
}

// Start registers the reminder job and starts the cron runner
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ReminderCron, s.runReminders)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Reminder scheduler started (%s)", s.cfg.ReminderCron)
	return nil
}

// Stop halts the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runReminders() {
	sent, err := s.svc.SendDueReminders(time.Now())
	if err != nil {
		s.log.Errorf("Reminder run failed: %v", err)
		return
	}
	s.log.Infof("Reminder run complete: %d sent", sent)
}
