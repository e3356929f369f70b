// Package applier runs the unattended application loop: it walks ranked
// matches in order, generates a cover letter per match and submits with
// retry, pacing and a daily cap. Only one run may be active at a time.
package applier

import (
	"context"
	"sync"
	"time"

	"github.com/spigell/hh-matcher/internal/coverletter"
	"github.com/spigell/hh-matcher/internal/ledger"
	"github.com/spigell/hh-matcher/internal/matcher"
	"github.com/spigell/hh-matcher/internal/resume"
	"github.com/spigell/hh-matcher/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

const (
	defaultMaxRetries      = 3
	defaultBackoffUnit     = time.Minute
	defaultPacing          = 5 * time.Minute
	defaultMaxApplications = 50
)

// Request describes one scheduler run. Matches are expected to arrive
// already filtered and sorted by the ranker; MinScore is re-checked
// defensively anyway.
type Request struct {
	Resume          *resume.Resume
	Matches         []*matcher.Match
	MinScore        float64
	MaxApplications int
}

// Report is the outcome of one run.
type Report struct {
	Submitted int  `json:"submitted"`
	Attempted int  `json:"attempted"`
	Stopped   bool `json:"stopped"`
}

type Scheduler struct {
	submitter Submitter
	letters   coverletter.Generator
	fallback  *coverletter.TemplateGenerator
	ledger    ledger.Ledger
	logger    *zap.Logger

	maxRetries  int
	backoffUnit time.Duration
	pacing      time.Duration
	now         func() time.Time
	newID       func() string

	mu         sync.Mutex
	running    bool
	stop       chan struct{}
	lastReport *Report
}

// New creates a scheduler. letters may be nil, in which case the built-in
// template generator is used directly.
func New(submitter Submitter, letters coverletter.Generator, ldgr ledger.Ledger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	fallback := coverletter.NewTemplateGenerator()
	if letters == nil {
		letters = fallback
	}

	return &Scheduler{
		submitter:   submitter,
		letters:     letters,
		fallback:    fallback,
		ledger:      ldgr,
		logger:      logger,
		maxRetries:  defaultMaxRetries,
		backoffUnit: defaultBackoffUnit,
		pacing:      defaultPacing,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return StateRunning
	}
	return StateIdle
}

func (s *Scheduler) LastReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastReport
}

// Start launches a run in the background. A start while a run is active is a
// no-op reporting false; exactly one loop exists at any time.
func (s *Scheduler) Start(ctx context.Context, req *Request) bool {
	if !s.begin() {
		s.logger.Warn("scheduler is already running, ignoring start request")
		return false
	}

	go s.run(ctx, req)

	return true
}

// Run executes a run synchronously. The single-flight rule applies the same
// way as for Start: a second concurrent Run returns nil immediately.
func (s *Scheduler) Run(ctx context.Context, req *Request) *Report {
	if !s.begin() {
		s.logger.Warn("scheduler is already running, ignoring run request")
		return nil
	}

	return s.run(ctx, req)
}

// Stop requests cooperative cancellation. The active run finishes its
// in-flight submission (including its retry sequence) and then exits.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.stop == nil {
		return
	}

	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// begin atomically transitions Idle -> Running.
func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}

	s.running = true
	s.stop = make(chan struct{})
	return true
}

func (s *Scheduler) run(ctx context.Context, req *Request) *Report {
	report := &Report{}

	defer func() {
		s.mu.Lock()
		s.running = false
		s.lastReport = report
		s.mu.Unlock()

		s.logger.Info("auto application run finished",
			zap.Int("submitted", report.Submitted),
			zap.Int("attempted", report.Attempted),
			zap.Bool("stopped", report.Stopped),
		)
	}()

	maxApplications := req.MaxApplications
	if maxApplications <= 0 {
		maxApplications = defaultMaxApplications
	}

	summary := coverletter.ResumeSummary{
		ExperienceYears: req.Resume.Analysis.ExperienceYears,
		Skills:          req.Resume.Analysis.Skills,
	}

	for _, match := range req.Matches {
		if s.stopRequested() || ctx.Err() != nil {
			report.Stopped = true
			break
		}

		if report.Submitted >= maxApplications {
			s.logger.Info("daily limit reached", zap.Int("max_applications", maxApplications))
			break
		}

		// Matches arrive pre-filtered; re-check anyway.
		if match.Score < req.MinScore {
			continue
		}

		report.Attempted++

		letter := s.letter(ctx, summary, match)

		app := &ledger.Application{
			ID:          s.newID(),
			VacancyID:   match.Vacancy.ID,
			ResumeID:    req.Resume.ID,
			Status:      ledger.StatusPending,
			CoverLetter: letter,
			AutoApplied: true,
		}

		err := s.submitWithRetry(ctx, req.Resume.ID, match.Vacancy.ID, letter)
		app.AppliedAt = s.now()

		if err != nil {
			// One vacancy's failure never aborts the run.
			app.Status = ledger.StatusFailed
			s.logger.Warn("giving up on vacancy",
				zap.String("vacancy_id", match.Vacancy.ID),
				zap.Error(err),
			)
		} else {
			app.Status = ledger.StatusSent
			report.Submitted++
			s.logger.Info("applied to vacancy",
				zap.String("vacancy_id", match.Vacancy.ID),
				zap.String("vacancy_name", match.Vacancy.Name),
				zap.String("employer", match.Vacancy.Employer.Name),
			)
		}

		s.record(ctx, app)

		if err == nil {
			// Spacing between submissions keeps the external service's abuse
			// detection away. Interruptible by a stop request.
			s.waitPacing(ctx)
		}
	}

	return report
}

func (s *Scheduler) letter(ctx context.Context, summary coverletter.ResumeSummary, match *matcher.Match) string {
	letter, err := s.letters.Generate(ctx, summary, match.Vacancy)
	if err == nil && letter != "" {
		return letter
	}

	if err != nil {
		s.logger.Warn("cover letter generation failed, using template",
			zap.String("vacancy_id", match.Vacancy.ID),
			zap.Error(err),
		)
	}

	letter, _ = s.fallback.Generate(ctx, summary, match.Vacancy)
	return letter
}

// submitWithRetry attempts the submission up to maxRetries times with
// linearly growing backoff (60s, then 120s). A stop request does not
// interrupt the retry sequence: abandoning it midway would leave the
// application in an ambiguous state.
func (s *Scheduler) submitWithRetry(ctx context.Context, resumeID, vacancyID, letter string) error {
	var lastErr error

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err := s.submitter.Submit(ctx, resumeID, vacancyID, letter)
		if err == nil {
			return nil
		}

		lastErr = err
		s.logger.Warn("submission attempt failed",
			zap.String("vacancy_id", vacancyID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < s.maxRetries {
			if waitErr := utils.WaitFor(ctx, time.Duration(attempt)*s.backoffUnit); waitErr != nil {
				return lastErr
			}
		}
	}

	return lastErr
}

func (s *Scheduler) record(ctx context.Context, app *ledger.Application) {
	if s.ledger == nil {
		return
	}

	if err := s.ledger.Append(ctx, app); err != nil {
		s.logger.Error("recording application outcome",
			zap.String("vacancy_id", app.VacancyID),
			zap.Error(err),
		)
	}
}

func (s *Scheduler) waitPacing(ctx context.Context) {
	if s.pacing <= 0 {
		return
	}

	timer := time.NewTimer(s.pacing)
	defer timer.Stop()

	select {
	case <-s.stop:
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (s *Scheduler) stopRequested() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}
