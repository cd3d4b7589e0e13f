// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package davsync

import (
	"context"
	"log/slog"
	"time"
)

// Start arms the scheduler from the stored interval. Scheduled runs stop
// when ctx is cancelled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	doc, err := o.store.Load(ctx)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.baseCtx = ctx
	o.mu.Unlock()

	interval := 0
	if cfg := doc.Settings.WebDAV; cfg.Configured() {
		interval = cfg.Interval
	}
	o.Reschedule(interval)
	return nil
}

// Reschedule cancels the running timer and, for a positive interval in
// minutes, arms a new one. Zero disarms.
func (o *Orchestrator) Reschedule(minutes int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.interval = minutes
	o.nextRun = time.Time{}
	if minutes <= 0 {
		return
	}

	period := time.Duration(minutes) * o.tickUnit
	ctx, cancel := context.WithCancel(o.baseCtx)
	o.cancel = cancel
	o.nextRun = o.now().Add(period)

	o.wg.Add(1)
	go o.run(ctx, period)
	slog.Info("backup schedule armed", "component", "davsync", "every", period)
}

// Interval returns the armed interval in minutes, zero when disarmed.
func (o *Orchestrator) Interval() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.interval
}

// Stop disarms the scheduler and waits for a running backup to return.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.interval = 0
	o.nextRun = time.Time{}
	o.mu.Unlock()

	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, period time.Duration) {
	defer o.wg.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.mu.Lock()
			if ctx.Err() == nil {
				o.nextRun = o.now().Add(period)
			}
			o.mu.Unlock()
			o.tick(ctx)
		}
	}
}

// tick runs one scheduled backup. Failures are logged and never stop the
// ticker.
func (o *Orchestrator) tick(ctx context.Context) {
	defer func() {
		if err := recover(); err != nil {
			slog.Error("scheduled backup panicked", "component", "davsync", "error", err)
		}
	}()

	res := o.Backup(ctx)
	if !res.Success {
		slog.Warn("scheduled backup failed",
			"component", "davsync",
			"message", res.Message,
			"status", res.Status,
		)
		return
	}
	slog.Info("scheduled backup uploaded", "component", "davsync", "file", res.File)
}
