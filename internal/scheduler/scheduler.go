// Package scheduler runs the periodic catalog refresh: it re-reads the gig
// list into the cache and re-indexes it for search.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"gigdial/internal/common/logger"
	"gigdial/internal/common/metrics"
	"gigdial/internal/models"

	"github.com/robfig/cron/v3"
)

// Refresher re-fetches the gig list and writes it to the cache.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.Gig, error)
}

// Indexer writes gigs to the search index.
type Indexer interface {
	Reindex(ctx context.Context, gigs []models.Gig) (int, error)
}

// Result summarises one refresh run.
type Result struct {
	Gigs    int `json:"gigs"`
	Indexed int `json:"indexed"`
}

// Scheduler wraps robfig/cron and owns the refresh job.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	source  Refresher
	indexer Indexer
	timeout time.Duration
	logger  logger.Logger
}

// New validates spec (e.g. "@every 5m") and builds a stopped scheduler.
// indexer may be nil when search is not configured.
func New(spec string, source Refresher, indexer Indexer, timeout time.Duration, log logger.Logger) (*Scheduler, error) {
	l := log.WithFields(map[string]interface{}{"component": "scheduler"})
	cl := cronLogger{l}

	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		spec:    spec,
		source:  source,
		indexer: indexer,
		timeout: timeout,
		logger:  l,
	}

	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("cron.AddFunc %q: %w", spec, err)
	}
	return s, nil
}

// Start starts the cron loop and runs one refresh immediately so the cache
// is warm before the first tick.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("catalog refresh scheduled", map[string]interface{}{"spec": s.spec})
	go func() { _, _ = s.RunOnce(context.Background()) }()
}

// Stop stops the loop and waits for a running refresh to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("catalog refresh stopped", nil)
}

// RunOnce performs a single bounded refresh.
func (s *Scheduler) RunOnce(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	gigs, err := s.source.Refresh(ctx)
	if err != nil {
		metrics.CatalogRefreshRuns.WithLabelValues("failed").Inc()
		s.logger.Error("catalog refresh failed", map[string]interface{}{"error": err})
		return nil, err
	}

	res := &Result{Gigs: len(gigs)}
	outcome := "success"
	if s.indexer != nil {
		n, err := s.indexer.Reindex(ctx, gigs)
		res.Indexed = n
		if err != nil {
			outcome = "partial"
			s.logger.Warn("catalog reindex failed", map[string]interface{}{"error": err})
		}
	}

	metrics.CatalogRefreshRuns.WithLabelValues(outcome).Inc()
	s.logger.Info("catalog refreshed", map[string]interface{}{
		"gigs":       res.Gigs,
		"indexed":    res.Indexed,
		"outcome":    outcome,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return res, nil
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, kv(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kv(keysAndValues)
	fields["error"] = err
	c.l.Error(msg, fields)
}

func kv(pairs []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields[fmt.Sprint(pairs[i])] = pairs[i+1]
	}
	return fields
}
