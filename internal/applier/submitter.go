package applier

import (
	"context"

	"github.com/spigell/hh-matcher/internal/headhunter"

	"go.uber.org/zap"
)

// Submitter performs one application submission. The real implementation
// talks to HeadHunter; the stub always succeeds so the whole loop can be
// exercised without an authorized account.
type Submitter interface {
	Submit(ctx context.Context, resumeID, vacancyID, coverLetter string) error
}

type HeadHunterSubmitter struct {
	Client *headhunter.Client
}

func (s *HeadHunterSubmitter) Submit(ctx context.Context, resumeID, vacancyID, coverLetter string) error {
	return s.Client.Apply(ctx, resumeID, vacancyID, coverLetter)
}

type StubSubmitter struct {
	Logger *zap.Logger
}

func (s *StubSubmitter) Submit(_ context.Context, resumeID, vacancyID, _ string) error {
	if s.Logger != nil {
		s.Logger.Info("stub submission",
			zap.String("vacancy_id", vacancyID),
			zap.String("resume_id", resumeID),
		)
	}
	return nil
}
