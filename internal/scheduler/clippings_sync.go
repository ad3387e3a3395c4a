package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/whoarder/internal/config"
	"github.com/mrlokans/whoarder/internal/entities"
	"github.com/mrlokans/whoarder/internal/importers"
	"github.com/mrlokans/whoarder/internal/logger"
)

type Importer interface {
	ImportBytes(source string, data []byte) (importers.Result, error)
}

type ImportHistory interface {
	GetLastCompletedImport(source string) (*entities.ImportSession, error)
}

// SyncOutcome describes one sync run. Skipped is set when the file has not
// changed since the last completed import.
type SyncOutcome struct {
	Skipped bool
	Result  importers.Result
}

// ClippingsSyncScheduler periodically re-imports a clippings file, typically
// the one on a mounted Kindle.
type ClippingsSyncScheduler struct {
	importer Importer
	history  ImportHistory
	config   config.Sync

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewClippingsSyncScheduler(importer Importer, history ImportHistory, cfg config.Sync) *ClippingsSyncScheduler {
	return &ClippingsSyncScheduler{
		importer: importer,
		history:  history,
		config:   cfg,
		cron:     cron.New(cron.WithParser(newCronParser())),
	}
}

func newCronParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// ValidateCronSchedule checks a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := newCronParser().Parse(schedule)
	return err
}

// Start begins the scheduler if sync is enabled
func (s *ClippingsSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		logger.Info("Clippings sync scheduler: disabled")
		return nil
	}

	if s.config.ClippingsPath == "" {
		logger.Warn("Clippings sync scheduler: clippings path not configured, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.runSync)
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	logger.Info("Clippings sync scheduler: started", map[string]interface{}{
		"schedule": s.config.Schedule,
		"path":     s.config.ClippingsPath,
	})

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *ClippingsSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	logger.Info("Clippings sync scheduler: stopped")
}

func (s *ClippingsSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sync will occur
func (s *ClippingsSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}

// RunNow performs one sync synchronously.
func (s *ClippingsSyncScheduler) RunNow() (SyncOutcome, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	path := s.config.ClippingsPath
	if path == "" {
		return SyncOutcome{}, fmt.Errorf("clippings path not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SyncOutcome{}, fmt.Errorf("failed to read clippings file: %w", err)
	}

	hash := importers.FileHash(data)
	if last, err := s.history.GetLastCompletedImport(path); err == nil && last.FileHash == hash {
		return SyncOutcome{Skipped: true}, nil
	}

	result, err := s.importer.ImportBytes(path, data)
	if err != nil {
		return SyncOutcome{}, err
	}
	return SyncOutcome{Result: result}, nil
}

func (s *ClippingsSyncScheduler) runSync() {
	start := time.Now()

	outcome, err := s.RunNow()
	if err != nil {
		logger.Error("Clippings sync: failed", err, map[string]interface{}{"path": s.config.ClippingsPath})
		return
	}
	if outcome.Skipped {
		logger.Debug("Clippings sync: file unchanged, skipped")
		return
	}

	logger.Info("Clippings sync: completed", map[string]interface{}{
		"created":  outcome.Result.ClippingsCreated,
		"skipped":  outcome.Result.ClippingsSkipped,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	})
}
