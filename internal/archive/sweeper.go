package archive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ttx-service/internal/app/report"
	"ttx-service/internal/domain"
	"ttx-service/internal/logging"
	"ttx-service/internal/metrics"
	"ttx-service/internal/store"
)

const defaultInterval = 5 * time.Minute

// ReportWriter persists report archives to disk.
type ReportWriter interface {
	Has(gameID string) bool
	WriteReport(rep report.Report) error
}

// Sweeper periodically archives after-action reports for games that
// have finished since the last pass.
type Sweeper struct {
	store    store.Store
	writer   ReportWriter
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the sweep loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// New constructs a Sweeper with sane defaults.
func New(st store.Store, writer ReportWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{
		store:    st,
		writer:   writer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins sweeping until the context is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		logging.Info(s.logger, "archive sweeper started",
			logging.FieldDurationMS, s.interval.Milliseconds())
		s.SweepOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				s.stopTicker()
				logging.Info(s.logger, "archive sweeper stopped")
				return
			case <-s.done:
				s.stopTicker()
				logging.Info(s.logger, "archive sweeper stopped")
				return
			case <-s.ticker.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// Stop halts the sweep loop.
func (s *Sweeper) Stop(ctx context.Context) error {
	_ = ctx
	s.stopOnce.Do(func() {
		close(s.done)
		s.stopTicker()
	})
	return nil
}

// SweepOnce archives every finished game that has no archive yet.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	start := time.Now()
	s.recordAttempt(start)

	games, err := s.store.Games()
	if err != nil {
		s.metrics.RecordArchiveSweep(time.Since(start), err)
		logging.Error(s.logger, "archive sweep failed", err)
		s.recordFailure(err, start)
		return
	}

	archived := 0
	var sweepErr error
	for _, g := range games {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if g.Status != domain.StatusFinished || s.writer.Has(g.ID) {
			continue
		}
		sc, err := s.store.GetScenario(g.ScenarioID)
		if err != nil {
			sweepErr = err
			logging.Error(s.logger, "archive scenario lookup failed", err,
				logging.FieldGameID, g.ID)
			continue
		}
		rep := report.Build(g, sc, s.now().UTC())
		if err := s.writer.WriteReport(rep); err != nil {
			sweepErr = err
			logging.Error(s.logger, "archive write failed", err,
				logging.FieldGameID, g.ID)
			continue
		}
		archived++
	}

	s.metrics.RecordArchiveSweep(time.Since(start), sweepErr)
	if sweepErr != nil {
		s.recordFailure(sweepErr, start)
		return
	}
	s.recordSuccess(start)
	if archived > 0 {
		logging.Info(s.logger, "archived finished games",
			logging.FieldCount, archived,
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
}

func (s *Sweeper) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func (s *Sweeper) recordAttempt(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastAttempt = at
}

func (s *Sweeper) recordSuccess(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastSuccess = at
}

func (s *Sweeper) recordFailure(err error, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures++
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.LastAttempt = at
}

// Status returns a snapshot of the sweeper's recent health.
func (s *Sweeper) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}
