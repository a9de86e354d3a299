// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/ocms-i18ntabs/internal/store"
)

// DefaultSchedule runs the housekeeping once a day.
const DefaultSchedule = "@daily"

// Config controls what the housekeeping job removes.
type Config struct {
	// Schedule is a cron expression or descriptor such as "@daily".
	Schedule string
	// RevisionKeep is the number of revisions kept per record.
	RevisionKeep int
	// EventsRetention is how long logged events are kept. Zero keeps them.
	EventsRetention time.Duration
}

// Scheduler prunes old revisions and events on a cron schedule.
type Scheduler struct {
	store  *store.Store
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new scheduler instance.
func New(st *store.Store, cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	return &Scheduler{
		store:  st,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the housekeeping job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("housekeeping failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.cfg.Schedule, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce prunes revisions beyond RevisionKeep and events older than
// EventsRetention.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	revisions, err := s.store.PruneRevisions(ctx, s.cfg.RevisionKeep)
	if err != nil {
		return fmt.Errorf("pruning revisions: %w", err)
	}

	var events int64
	if s.cfg.EventsRetention > 0 {
		before := s.now().UTC().Add(-s.cfg.EventsRetention)
		events, err = s.store.Queries().DeleteEventsBefore(ctx, before)
		if err != nil {
			return fmt.Errorf("pruning events: %w", err)
		}
	}

	if revisions > 0 || events > 0 {
		s.logger.Info("housekeeping done", "revisions_removed", revisions, "events_removed", events)
	}
	return nil
}
