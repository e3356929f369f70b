// Package matcher scores vacancies against a resume using a tf-idf vector
// space shared by both document populations.
package matcher

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/hh-matcher/internal/headhunter"

	"go.uber.org/zap"
)

const defaultPageSize = 10

// Match pairs one vacancy with its relevance score against the resume.
// Rank is the 1-based position after sorting.
type Match struct {
	Vacancy *headhunter.Vacancy
	Score   float64
	Rank    int
}

// Result is one page of ranked matches. Total counts all matches above the
// score threshold, not just the returned page.
type Result struct {
	Matches []*Match
	Total   int
	HasMore bool
}

// ReportByEmployer groups the page's matches by employer name for human
// inspection before an application run.
func (r *Result) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, match := range r.Matches {
		v := match.Vacancy
		report[v.Employer.Name] = append(report[v.Employer.Name], map[string]string{
			"id":    v.ID,
			"name":  v.Name,
			"url":   v.AlternateURL,
			"area":  v.Area.Name,
			"score": strconv.FormatFloat(match.Score, 'f', 3, 64),
		})
	}
	return report
}

type Ranker struct {
	logger *zap.Logger
}

func NewRanker(logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{logger: logger}
}

// Rank builds a vector space from the resume text followed by the vacancy
// descriptions, scores each vacancy by cosine similarity against the resume
// vector, drops matches below minScore and returns the first pageSize of the
// remainder sorted by score. The sort is stable: equal scores keep the
// original vacancy order, so identical inputs always produce identical
// output.
func (r *Ranker) Rank(resumeText string, vacancies []*headhunter.Vacancy, minScore float64, pageSize int) *Result {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := &Result{Matches: []*Match{}}
	if strings.TrimSpace(resumeText) == "" || len(vacancies) == 0 {
		return result
	}

	documents := make([]string, 0, len(vacancies)+1)
	documents = append(documents, resumeText)
	for _, v := range vacancies {
		documents = append(documents, v.DescriptionText())
	}

	space := BuildSpace(documents)
	if space.Empty() {
		r.logger.Debug("vector space is empty, no matches computable",
			zap.Int("vacancies", len(vacancies)),
		)
		return result
	}

	resumeVec := space.Vectors[0]
	matches := make([]*Match, 0, len(vacancies))
	for i, v := range vacancies {
		score := Cosine(resumeVec, space.Vectors[i+1])
		if score < minScore {
			continue
		}
		matches = append(matches, &Match{Vacancy: v, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	for i, m := range matches {
		m.Rank = i + 1
	}

	result.Total = len(matches)
	result.HasMore = result.Total > pageSize
	if len(matches) > pageSize {
		matches = matches[:pageSize]
	}
	result.Matches = matches

	r.logger.Debug("ranking completed",
		zap.Int("vacancies", len(vacancies)),
		zap.Int("total_matches", result.Total),
		zap.Bool("has_more", result.HasMore),
	)

	return result
}
