// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher queues events and publishes them from a pool of workers, so a
// slow broker never blocks a request.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	queue     chan *Event
	workers   int
	timeout   time.Duration
	wg        sync.WaitGroup
	done      chan struct{}
	mu        sync.RWMutex
	running   bool
}

// Config holds dispatcher configuration.
type Config struct {
	Workers        int // Number of concurrent publish workers
	QueueSize      int
	PublishTimeout time.Duration
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        2,
		QueueSize:      100,
		PublishTimeout: 5 * time.Second,
	}
}

// NewDispatcher creates a dispatcher that publishes through p.
func NewDispatcher(p Publisher, logger *slog.Logger, cfg Config) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = def.PublishTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		publisher: p,
		logger:    logger,
		queue:     make(chan *Event, cfg.QueueSize),
		workers:   cfg.Workers,
		timeout:   cfg.PublishTimeout,
		done:      make(chan struct{}),
	}
}

// Start starts the publish workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true

	d.logger.Info("starting event dispatcher", "workers", d.workers)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop stops accepting events, publishes what is already queued and waits
// for the workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.done)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("event dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.publish(event)
		case <-d.done:
			// Drain what is left without blocking.
			for {
				select {
				case event := <-d.queue:
					d.publish(event)
				default:
					d.logger.Debug("event worker stopping", "worker_id", id)
					return
				}
			}
		}
	}
}

func (d *Dispatcher) publish(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Warn("failed to publish event",
			"category", "system",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return
	}
	d.logger.Debug("event published", "event_id", event.ID, "event_type", event.Type)
}

// Dispatch queues an event. It returns false if the dispatcher is stopped or
// the queue is full; the event is dropped in both cases.
func (d *Dispatcher) Dispatch(event *Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		d.logger.Warn("dispatcher not running, dropping event", "event_type", event.Type)
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.logger.Warn("event queue full, dropping event", "event_type", event.Type)
		return false
	}
}

// Emit implements Emitter.
func (d *Dispatcher) Emit(_ context.Context, eventType string, data any) {
	d.Dispatch(NewEvent(eventType, data))
}

var _ Emitter = (*Dispatcher)(nil)
