package matcher

import (
	"math"
	"testing"

	"github.com/spigell/hh-matcher/internal/headhunter"

	"go.uber.org/zap"
)

func vacancy(id, name, responsibility, requirement string) *headhunter.Vacancy {
	v := &headhunter.Vacancy{ID: id, Name: name}
	v.Snippet.Responsibility = responsibility
	v.Snippet.Requirement = requirement
	return v
}

func TestRankOrdersByDescendingScore(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	resume := "golang kubernetes docker engineer"
	vacancies := []*headhunter.Vacancy{
		vacancy("low", "pastry chef baking", "", ""),
		vacancy("high", "golang kubernetes docker wanted", "", ""),
		vacancy("mid", "golang kubernetes chef", "", ""),
	}

	result := ranker.Rank(resume, vacancies, 0, 10)

	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if result.HasMore {
		t.Fatalf("did not expect more pages")
	}

	if result.Matches[0].Vacancy.ID != "high" || result.Matches[1].Vacancy.ID != "mid" || result.Matches[2].Vacancy.ID != "low" {
		t.Fatalf("unexpected order: %s %s %s",
			result.Matches[0].Vacancy.ID, result.Matches[1].Vacancy.ID, result.Matches[2].Vacancy.ID)
	}

	if result.Matches[0].Score < 0.99 {
		t.Fatalf("expected near-perfect score for full overlap, got %f", result.Matches[0].Score)
	}
	if s := result.Matches[1].Score; s <= 0 || s >= result.Matches[0].Score {
		t.Fatalf("expected partial overlap between 0 and top score, got %f", s)
	}
	if result.Matches[2].Score != 0 {
		t.Fatalf("expected zero score for disjoint vacancy, got %f", result.Matches[2].Score)
	}

	for i, m := range result.Matches {
		if m.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, m.Rank)
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	resume := "distributed systems engineer with go and postgresql experience"
	vacancies := []*headhunter.Vacancy{
		vacancy("1", "Go Developer", "build distributed systems", "go postgresql"),
		vacancy("2", "Systems Engineer", "maintain postgresql clusters", "systems experience"),
		vacancy("3", "Frontend Developer", "react applications", "javascript"),
	}

	first := ranker.Rank(resume, vacancies, 0, 10)
	second := ranker.Rank(resume, vacancies, 0, 10)

	if first.Total != second.Total {
		t.Fatalf("totals differ: %d vs %d", first.Total, second.Total)
	}
	for i := range first.Matches {
		if first.Matches[i].Vacancy.ID != second.Matches[i].Vacancy.ID {
			t.Fatalf("order differs at %d: %s vs %s", i, first.Matches[i].Vacancy.ID, second.Matches[i].Vacancy.ID)
		}
		if first.Matches[i].Score != second.Matches[i].Score {
			t.Fatalf("score differs at %d", i)
		}
	}
}

func TestRankTiesPreserveOriginalOrder(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	// The unrelated vacancy keeps the shared terms under the document
	// frequency ceiling and is dropped by the threshold itself.
	resume := "golang backend services"
	vacancies := []*headhunter.Vacancy{
		vacancy("first", "golang backend services", "", ""),
		vacancy("second", "golang backend services", "", ""),
		vacancy("outlier", "pastry chef baking", "", ""),
	}

	result := ranker.Rank(resume, vacancies, 0.5, 10)

	if result.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Total)
	}
	if result.Matches[0].Score != result.Matches[1].Score {
		t.Fatalf("expected equal scores, got %f and %f", result.Matches[0].Score, result.Matches[1].Score)
	}
	if result.Matches[0].Vacancy.ID != "first" {
		t.Fatalf("stable sort must keep original order, got %s first", result.Matches[0].Vacancy.ID)
	}
}

func TestRankUnrelatedDocumentsYieldNoMatches(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	result := ranker.Rank(
		"backend systems engineer",
		[]*headhunter.Vacancy{vacancy("1", "senior pastry chef", "", "")},
		0.9, 10,
	)

	if result.Total != 0 {
		t.Fatalf("expected total 0, got %d", result.Total)
	}
	if len(result.Matches) != 0 || result.HasMore {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestRankMinScoreFiltersBeforeTotal(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	resume := "golang kubernetes docker engineer"
	vacancies := []*headhunter.Vacancy{
		vacancy("low", "pastry chef baking", "", ""),
		vacancy("high", "golang kubernetes docker wanted", "", ""),
		vacancy("mid", "golang kubernetes chef", "", ""),
	}

	result := ranker.Rank(resume, vacancies, 0.5, 10)

	if result.Total != 2 {
		t.Fatalf("expected total 2 after threshold, got %d", result.Total)
	}
	for _, m := range result.Matches {
		if m.Score < 0.5 {
			t.Fatalf("match %s below threshold: %f", m.Vacancy.ID, m.Score)
		}
	}
}

func TestRankPagination(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	resume := "golang kubernetes docker engineer"
	vacancies := []*headhunter.Vacancy{
		vacancy("a", "golang kubernetes docker", "", ""),
		vacancy("b", "golang kubernetes docker", "", ""),
		vacancy("c", "golang kubernetes docker", "", ""),
		vacancy("d", "pastry chef baking", "", ""),
	}

	result := ranker.Rank(resume, vacancies, 0.5, 2)

	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if !result.HasMore {
		t.Fatalf("expected more pages")
	}
	if len(result.Matches) != 2 {
		t.Fatalf("expected 2 matches on page, got %d", len(result.Matches))
	}
}

func TestResultReportByEmployer(t *testing.T) {
	first := vacancy("1", "Go Developer", "", "")
	first.Employer.Name = "Acme"
	first.AlternateURL = "https://example.com/1"
	second := vacancy("2", "Platform Engineer", "", "")
	second.Employer.Name = "Acme"
	third := vacancy("3", "SRE", "", "")
	third.Employer.Name = "Globex"

	result := &Result{Matches: []*Match{
		{Vacancy: first, Score: 0.75, Rank: 1},
		{Vacancy: second, Score: 0.5, Rank: 2},
		{Vacancy: third, Score: 0.25, Rank: 3},
	}}

	report := result.ReportByEmployer()

	if len(report) != 2 {
		t.Fatalf("expected 2 employers, got %d", len(report))
	}
	if len(report["Acme"]) != 2 || len(report["Globex"]) != 1 {
		t.Fatalf("unexpected grouping: %v", report)
	}
	if report["Acme"][0]["score"] != "0.750" {
		t.Fatalf("expected score 0.750, got %s", report["Acme"][0]["score"])
	}
	if report["Acme"][0]["url"] != "https://example.com/1" {
		t.Fatalf("expected url in report, got %s", report["Acme"][0]["url"])
	}
}

func TestRankEmptyInputs(t *testing.T) {
	ranker := NewRanker(zap.NewNop())

	empty := ranker.Rank("", []*headhunter.Vacancy{vacancy("1", "anything", "", "")}, 0, 10)
	if empty.Total != 0 || len(empty.Matches) != 0 || empty.HasMore {
		t.Fatalf("expected empty result for empty resume, got %+v", empty)
	}

	empty = ranker.Rank("some resume", nil, 0, 10)
	if empty.Total != 0 || len(empty.Matches) != 0 || empty.HasMore {
		t.Fatalf("expected empty result for no vacancies, got %+v", empty)
	}
}

func TestBuildSpaceDegenerateCases(t *testing.T) {
	if space := BuildSpace(nil); !space.Empty() {
		t.Fatalf("expected empty space for no documents")
	}
	if space := BuildSpace([]string{"only one document"}); !space.Empty() {
		t.Fatalf("expected empty space for single document")
	}
}

func TestBuildSpaceVectorsAreNormalized(t *testing.T) {
	// No term may cross the 90% document frequency ceiling, or it is
	// pruned from the vocabulary.
	space := BuildSpace([]string{
		"golang services engineer",
		"golang services developer",
		"golang platform developer",
		"services consulting firm",
	})

	if space.Empty() {
		t.Fatalf("expected a usable space")
	}

	for i, vec := range space.Vectors {
		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("vector %d is not L2-normalized: %f", i, sum)
		}
	}
}
