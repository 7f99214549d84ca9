// Package scheduler runs the background refresh jobs: market-trend cache
// warming and live-prediction broadcasting.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/internal/intelligence"
	"github.com/scoutsight/intel-engine/internal/providers"
	"github.com/scoutsight/intel-engine/internal/ws"
)

// Scheduler owns the cron jobs that keep caches warm and live subscribers fed
type Scheduler struct {
	cron       *cron.Cron
	marketData *providers.CachedMarketData
	service    *intelligence.Service
	hub        *ws.PredictionHub
	logger     *logrus.Logger

	mu        sync.RWMutex
	jobs      map[string]JobInfo
	isRunning bool

	// Matches currently being broadcast to websocket subscribers
	liveMatches map[string]bool
	liveMu      sync.RWMutex
}

// JobInfo tracks one scheduled job's health
type JobInfo struct {
	Name       string        `json:"name"`
	Schedule   string        `json:"schedule"`
	LastRun    time.Time     `json:"last_run"`
	RunCount   int           `json:"run_count"`
	ErrorCount int           `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// NewScheduler creates the refresh scheduler
func NewScheduler(marketData *providers.CachedMarketData, service *intelligence.Service, hub *ws.PredictionHub, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.VerbosePrintfLogger(logger)

	return &Scheduler{
		cron:        cron.New(cron.WithLogger(cronLogger)),
		marketData:  marketData,
		service:     service,
		hub:         hub,
		logger:      logger,
		jobs:        make(map[string]JobInfo),
		liveMatches: make(map[string]bool),
	}
}

// Start schedules and launches the background jobs
func (s *Scheduler) Start(marketSchedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if err := s.addJob("market_refresh", marketSchedule, s.refreshMarketTrends); err != nil {
		return fmt.Errorf("failed to schedule market refresh: %w", err)
	}
	// Live predictions refresh on a tight loop while matches are tracked
	if err := s.addJob("live_broadcast", "@every 30s", s.broadcastLivePredictions); err != nil {
		return fmt.Errorf("failed to schedule live broadcast: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("component", "scheduler").Info("Refresh scheduler started")
	return nil
}

// Stop halts the cron scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.WithField("component", "scheduler").Info("Refresh scheduler stopped")
}

// TrackMatch registers a live match for periodic prediction broadcasts
func (s *Scheduler) TrackMatch(matchID string) {
	s.liveMu.Lock()
	s.liveMatches[matchID] = true
	s.liveMu.Unlock()
}

// UntrackMatch stops broadcasting for a finished match
func (s *Scheduler) UntrackMatch(matchID string) {
	s.liveMu.Lock()
	delete(s.liveMatches, matchID)
	s.liveMu.Unlock()
}

func (s *Scheduler) addJob(name, schedule string, run func() error) error {
	s.jobs[name] = JobInfo{Name: name, Schedule: schedule}

	_, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		err := run()
		s.recordRun(name, start, err)
	})
	return err
}

func (s *Scheduler) recordRun(name string, start time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := s.jobs[name]
	job.LastRun = start
	job.RunCount++
	job.Duration = time.Since(start)
	if err != nil {
		job.ErrorCount++
		job.LastError = err.Error()
		s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
	}
	s.jobs[name] = job
}

// Jobs returns a snapshot of job health for diagnostics
func (s *Scheduler) Jobs() map[string]JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]JobInfo, len(s.jobs))
	for name, job := range s.jobs {
		snapshot[name] = job
	}
	return snapshot
}

func (s *Scheduler) refreshMarketTrends() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return s.marketData.WarmTrends(ctx)
}

func (s *Scheduler) broadcastLivePredictions() error {
	s.liveMu.RLock()
	matchIDs := make([]string, 0, len(s.liveMatches))
	for matchID := range s.liveMatches {
		matchIDs = append(matchIDs, matchID)
	}
	s.liveMu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	for _, matchID := range matchIDs {
		predictions, err := s.service.GetLiveMatchPredictions(ctx, matchID)
		if err != nil {
			s.logger.WithError(err).WithField("match_id", matchID).Warn("Skipping prediction broadcast")
			continue
		}
		s.hub.Broadcast(predictions)
	}
	return nil
}
