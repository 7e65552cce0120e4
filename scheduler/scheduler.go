// Package scheduler fires the ingestion pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"efewire/notices"
	"efewire/pipeline"
	"efewire/settings"
)

// runTimeout bounds one scheduled pass, downloads included.
const runTimeout = 10 * time.Minute

// Scheduler wraps a cron runner around the pipeline, honoring the
// enabled flag from the settings store on every tick.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	store    settings.Store
	log      *notices.Log
}

// New creates a scheduler for the given cron expression.
func New(spec string, p *pipeline.Pipeline, store settings.Store, log *notices.Log) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		store:    store,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("adding cron entry %q: %w", spec, err)
	}
	return s, nil
}

// Start begins the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron runner and waits for a running pass.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	enabled, _ := s.store.Get(ctx, settings.KeyEnabled)
	if enabled != "true" {
		s.log.Infof("scheduler: ingestion disabled, skipping run")
		return
	}

	if _, err := s.pipeline.Run(ctx); err != nil {
		if s.pipeline.Stale(ctx) {
			s.log.Warnf("scheduler: feed is stale and the last run failed: %v", err)
		}
	}
}
