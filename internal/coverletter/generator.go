// Package coverletter produces the application message for one
// (resume, vacancy) pair. The template generator is pure and always returns
// text; the Gemini generator may fail and callers are expected to fall back.
package coverletter

import (
	"context"

	"github.com/spigell/hh-matcher/internal/headhunter"
)

// ResumeSummary is the slice of resume analysis a letter needs.
type ResumeSummary struct {
	ExperienceYears int
	Skills          []string
}

type Generator interface {
	Generate(ctx context.Context, summary ResumeSummary, vacancy *headhunter.Vacancy) (string, error)
}
