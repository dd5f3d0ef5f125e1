package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	"EliteScan/pkg/config"
	applogger "EliteScan/pkg/logger"
)

var ErrJobNotFound = errors.New("scan job not found")

type JobState string

const (
	JobRunning   JobState = "running"
	JobDone      JobState = "done"
	JobCancelled JobState = "cancelled"
	JobFailed    JobState = "failed"
)

// JobStatus is a point-in-time view of a scan job.
type JobStatus struct {
	ID        string             `json:"id"`
	State     JobState           `json:"state"`
	Completed int64              `json:"completed"`
	Total     int64              `json:"total"`
	Error     string             `json:"error,omitempty"`
	Report    *models.ScanReport `json:"report,omitempty"`
}

// ScanJob is an asynchronous scan. Progress is readable without locking.
type ScanJob struct {
	ID string

	completed atomic.Int64
	total     atomic.Int64
	cancel    context.CancelFunc
	done      chan struct{}

	mu     sync.Mutex
	state  JobState
	report *models.ScanReport
	err    error
	subs   map[chan models.Progress]struct{}
}

func (j *ScanJob) Done() <-chan struct{} { return j.done }

func (j *ScanJob) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	st := JobStatus{
		ID:        j.ID,
		State:     j.state,
		Completed: j.completed.Load(),
		Total:     j.total.Load(),
		Report:    j.report,
	}
	if j.err != nil {
		st.Error = j.err.Error()
	}
	return st
}

// Subscribe streams progress until the job ends. The returned func unsubscribes.
func (j *ScanJob) Subscribe() (<-chan models.Progress, func()) {
	ch := make(chan models.Progress, 64)
	j.mu.Lock()
	if j.state != JobRunning {
		j.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	j.subs[ch] = struct{}{}
	j.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			j.mu.Lock()
			defer j.mu.Unlock()
			if _, ok := j.subs[ch]; ok {
				delete(j.subs, ch)
				close(ch)
			}
		})
	}
}

func (j *ScanJob) publish(p models.Progress) {
	j.completed.Store(int64(p.Completed))
	j.total.Store(int64(p.Total))
	j.mu.Lock()
	defer j.mu.Unlock()
	for ch := range j.subs {
		select {
		case ch <- p:
		default: // slow subscriber drops intermediate events
		}
	}
}

func (j *ScanJob) finish(report *models.ScanReport, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.report, j.err = report, err
	switch {
	case err != nil:
		j.state = JobFailed
	case report.Cancelled:
		j.state = JobCancelled
	default:
		j.state = JobDone
	}
	for ch := range j.subs {
		close(ch)
	}
	j.subs = nil
	close(j.done)
}

// ScanService loads the universe, runs scans and hands reports to the sink.
type ScanService struct {
	universe domrepo.UniverseSource
	scanner  *Scanner
	sink     domrepo.ResultSink
	scan     config.ScanConfig
	sinkTO   time.Duration
	l        *applogger.Logger

	mu   sync.RWMutex
	jobs map[string]*ScanJob
}

func NewScanService(universe domrepo.UniverseSource, scanner *Scanner, sink domrepo.ResultSink, cfg *config.Config, l *applogger.Logger) *ScanService {
	if l == nil {
		l = applogger.Nop()
	}
	return &ScanService{
		universe: universe,
		scanner:  scanner,
		sink:     sink,
		scan:     cfg.Scan,
		sinkTO:   cfg.Sink.Timeout,
		l:        l,
		jobs:     make(map[string]*ScanJob),
	}
}

// loadUniverse applies the request symbols, or the configured ones when none are given.
func (s *ScanService) loadUniverse(ctx context.Context, symbols []string) (models.Universe, error) {
	u, err := s.universe.Load(ctx)
	if err != nil {
		return models.Universe{}, fmt.Errorf("load universe: %w", err)
	}
	if len(symbols) == 0 {
		symbols = s.scan.Symbols
	}
	if len(symbols) > 0 {
		u = u.Restrict(symbols)
	}
	if u.Len() == 0 {
		return models.Universe{}, models.ErrEmptyUniverse
	}
	return u, nil
}

// Run scans synchronously and saves the report.
func (s *ScanService) Run(ctx context.Context, symbols []string, progress ProgressFunc) (*models.ScanReport, error) {
	return s.run(ctx, "", symbols, progress)
}

func (s *ScanService) run(ctx context.Context, id string, symbols []string, progress ProgressFunc) (*models.ScanReport, error) {
	u, err := s.loadUniverse(ctx, symbols)
	if err != nil {
		return nil, err
	}
	report, err := s.scanner.Scan(ctx, id, u, progress)
	if err != nil {
		return nil, err
	}
	s.save(report)
	return report, nil
}

// save never fails the scan; sink errors are logged.
func (s *ScanService) save(report *models.ScanReport) {
	if s.sink == nil {
		return
	}
	ctx := context.Background()
	if s.sinkTO > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sinkTO)
		defer cancel()
	}
	if err := s.sink.Save(ctx, report); err != nil {
		s.l.Error("save scan report failed", applogger.String("scan_id", report.ID), applogger.Error(err))
	}
}

// Start launches an asynchronous scan. The universe is resolved before returning so
// configuration errors surface to the caller.
func (s *ScanService) Start(symbols []string) (*ScanJob, error) {
	u, err := s.loadUniverse(context.Background(), symbols)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &ScanJob{
		ID:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
		state:  JobRunning,
		subs:   make(map[chan models.Progress]struct{}),
	}
	job.total.Store(int64(u.Len()))

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go func() {
		defer cancel()
		report, err := s.scanner.Scan(ctx, job.ID, u, job.publish)
		if err == nil {
			s.save(report)
		}
		job.finish(report, err)
	}()
	return job, nil
}

func (s *ScanService) Job(id string) (*ScanJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Cancel requests cooperative cancellation of a running job.
func (s *ScanService) Cancel(id string) error {
	job, err := s.Job(id)
	if err != nil {
		return err
	}
	job.cancel()
	return nil
}

// Backtest runs the full historical view for one universe member.
func (s *ScanService) Backtest(ctx context.Context, symbol string, optimize bool) (*models.InstrumentBacktest, error) {
	u, err := s.universe.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	in, ok := u.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
	}
	return s.scanner.Backtest(ctx, in, optimize)
}

// Shutdown cancels all running jobs.
func (s *ScanService) Shutdown() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		j.cancel()
	}
}
