// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: publishing scheduled
// posts, auditing menus for unreachable items, purging old rejected comments
// and pruning the event log.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/service"
)

// Job names
const (
	JobPublishPosts  = "publish-scheduled-posts"
	JobAuditMenus    = "audit-menus"
	JobPurgeComments = "purge-rejected-comments"
	JobPruneEvents   = "prune-event-log"
)

const jobTimeout = 5 * time.Minute

// PostPublisher publishes posts whose scheduled time has passed.
type PostPublisher interface {
	PublishDue(ctx context.Context) (int, error)
}

// MenuAuditor reports menu items that no root reaches.
type MenuAuditor interface {
	AuditOrphans(ctx context.Context) ([]service.MenuAudit, error)
}

// CommentPurger deletes old rejected comments.
type CommentPurger interface {
	PurgeRejected(ctx context.Context, olderThan time.Duration) (int64, error)
}

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, t time.Time) (int64, error)
}

// Config holds the job targets and retention periods. A nil target skips its
// job; a zero retention disables the matching cleanup.
type Config struct {
	Posts    PostPublisher
	Menus    MenuAuditor
	Comments CommentPurger
	Events   EventPruner

	RejectedCommentRetention time.Duration
	EventLogRetention        time.Duration
}

// Scheduler handles scheduled tasks like publishing posts.
type Scheduler struct {
	cfg      Config
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new scheduler instance. Jobs are registered by Start.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Scheduler{
		cfg:      cfg,
		cron:     c,
		registry: NewRegistry(c, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Registry exposes the registered jobs.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if err := s.registerJobs(); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) registerJobs() error {
	type job struct {
		name, description, schedule string
		enabled                     bool
		run                         func(ctx context.Context) error
	}
	jobs := []job{
		{JobPublishPosts, "Publish drafts whose scheduled time has passed", "* * * * *",
			s.cfg.Posts != nil, s.publishPosts},
		{JobAuditMenus, "Log menu items that no root item reaches", "@hourly",
			s.cfg.Menus != nil, s.auditMenus},
		{JobPurgeComments, "Delete rejected comments past their retention", "@daily",
			s.cfg.Comments != nil && s.cfg.RejectedCommentRetention > 0, s.purgeComments},
		{JobPruneEvents, "Delete event log entries past their retention", "@daily",
			s.cfg.Events != nil && s.cfg.EventLogRetention > 0, s.pruneEvents},
	}
	for _, j := range jobs {
		if !j.enabled {
			continue
		}
		if err := s.registry.Register(j.name, j.description, j.schedule, jobTimeout, j.run); err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) publishPosts(ctx context.Context) error {
	n, err := s.cfg.Posts.PublishDue(ctx)
	if n > 0 {
		s.logger.Info("processed scheduled posts", "category", model.EventCategoryContent, "published", n)
	}
	return err
}

func (s *Scheduler) auditMenus(ctx context.Context) error {
	audits, err := s.cfg.Menus.AuditOrphans(ctx)
	if len(audits) > 0 {
		s.logger.Info("menu audit finished", "category", model.EventCategoryMenu, "menus_with_orphans", len(audits))
	}
	return err
}

func (s *Scheduler) purgeComments(ctx context.Context) error {
	n, err := s.cfg.Comments.PurgeRejected(ctx, s.cfg.RejectedCommentRetention)
	if n > 0 {
		s.logger.Info("purged rejected comments", "category", model.EventCategoryComment, "deleted", n)
	}
	return err
}

func (s *Scheduler) pruneEvents(ctx context.Context) error {
	n, err := s.cfg.Events.DeleteEventsBefore(ctx, s.now().Add(-s.cfg.EventLogRetention))
	if n > 0 {
		s.logger.Info("pruned event log", "deleted", n)
	}
	return err
}
