package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"project-tracker/pkg/logger"
)

// JobScheduler รัน background job ตาม cron expression
type JobScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, timeout time.Duration, task func(ctx context.Context) error) error
	RemoveJob(id string) error
	ListJobs() map[string]*JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID        string
	CronExpr  string
	LastRun   *time.Time
	LastError string
	NextRun   *time.Time
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*jobEntry
	mu        sync.RWMutex
	running   bool
}

type jobEntry struct {
	info JobInfo
	job  *gocron.Job
}

func NewJobScheduler() JobScheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	// job เดิมยังไม่จบ รอบใหม่จะถูกข้าม
	scheduler.SingletonModeAll()

	return &GocronScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]*jobEntry),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Job scheduler started", "jobs", len(s.jobs))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("Job scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, timeout time.Duration, task func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		s.execute(id, timeout, task)
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	nextRun := job.NextRun()
	s.jobs[id] = &jobEntry{
		info: JobInfo{ID: id, CronExpr: cronExpr, NextRun: &nextRun},
		job:  job,
	}

	logger.Info("Job added", "id", id, "cron", cronExpr, "next_run", nextRun.Format(time.RFC3339))
	return nil
}

func (s *GocronScheduler) execute(id string, timeout time.Duration, task func(ctx context.Context) error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	err := task(ctx)

	s.mu.Lock()
	if entry, exists := s.jobs[id]; exists {
		entry.info.LastRun = &started
		entry.info.LastError = ""
		if err != nil {
			entry.info.LastError = err.Error()
		}
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("Job failed", "id", id, "duration", time.Since(started), "error", err)
		return
	}
	logger.Debug("Job finished", "id", id, "duration", time.Since(started))
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	s.scheduler.RemoveByReference(entry.job)
	delete(s.jobs, id)
	logger.Info("Job removed", "id", id)
	return nil
}

// ListJobs คืนสำเนา ไม่ใช่ pointer ภายใน
func (s *GocronScheduler) ListJobs() map[string]*JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]*JobInfo, len(s.jobs))
	for id, entry := range s.jobs {
		info := entry.info
		if entry.info.LastRun != nil {
			lastRun := *entry.info.LastRun
			info.LastRun = &lastRun
		}
		nextRun := entry.job.NextRun()
		info.NextRun = &nextRun
		jobs[id] = &info
	}
	return jobs
}

func ValidateCronExpression(cronExpr string) error {
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Cron(cronExpr).Do(func() {}); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
