// Package ledger records the outcomes of application submissions. The
// scheduler appends completed applications; readers query by status or
// recency for status reporting. Records are terminal once written.
package ledger

import (
	"context"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

type Application struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	VacancyID   string    `json:"vacancy_id" gorm:"index"`
	ResumeID    string    `json:"resume_id"`
	Status      Status    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
	CoverLetter string    `json:"cover_letter"`
	AutoApplied bool      `json:"auto_applied"`
}

type Ledger interface {
	Append(ctx context.Context, app *Application) error
	ByStatus(ctx context.Context, status Status) ([]*Application, error)
	Recent(ctx context.Context, limit int) ([]*Application, error)
}

// Summary aggregates application counts for status reporting.
type Summary struct {
	Total   int `json:"total_applications"`
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

func Summarize(apps []*Application) Summary {
	summary := Summary{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case StatusPending:
			summary.Pending++
		case StatusSent:
			summary.Sent++
		case StatusFailed:
			summary.Failed++
		}
	}
	return summary
}
