package coverletter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/hh-matcher/internal/headhunter"

	"go.uber.org/zap"
)

func testVacancy(id, name, employer string) *headhunter.Vacancy {
	v := &headhunter.Vacancy{ID: id, Name: name}
	v.Employer.Name = employer
	return v
}

func TestTemplateGeneratorMentionsPositionAndCompany(t *testing.T) {
	gen := NewTemplateGenerator()

	letter, err := gen.Generate(context.Background(),
		ResumeSummary{ExperienceYears: 5, Skills: []string{"go", "postgresql", "kafka", "docker"}},
		testVacancy("1", "Backend Engineer", "Acme"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(letter, "Backend Engineer") {
		t.Fatalf("expected position in letter:\n%s", letter)
	}
	if !strings.Contains(letter, "Acme") {
		t.Fatalf("expected company in letter:\n%s", letter)
	}
	if !strings.Contains(letter, "go, postgresql, kafka") {
		t.Fatalf("expected top three skills in letter:\n%s", letter)
	}
	if strings.Contains(letter, "docker") {
		t.Fatalf("expected skills truncated to three:\n%s", letter)
	}
}

func TestTemplateGeneratorFallsBackWithoutSkills(t *testing.T) {
	gen := NewTemplateGenerator()

	letter, err := gen.Generate(context.Background(), ResumeSummary{}, testVacancy("1", "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if letter == "" {
		t.Fatalf("letter must never be empty")
	}
	if !strings.Contains(letter, fallbackSkills) {
		t.Fatalf("expected generic skills phrase:\n%s", letter)
	}
}

func TestTemplateGeneratorIsDeterministicPerVacancy(t *testing.T) {
	gen := NewTemplateGenerator()
	summary := ResumeSummary{ExperienceYears: 3, Skills: []string{"go"}}
	vacancy := testVacancy("42", "Go Developer", "Globex")

	first, _ := gen.Generate(context.Background(), summary, vacancy)
	second, _ := gen.Generate(context.Background(), summary, vacancy)

	if first != second {
		t.Fatalf("expected identical letters for identical input")
	}
}

type stubContentGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubContentGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestGeminiGeneratorBuildsPromptFromPair(t *testing.T) {
	stub := &stubContentGenerator{response: "Dear Acme team, ..."}
	gen := NewGeminiGenerator(stub, zap.NewNop())

	letter, err := gen.Generate(context.Background(),
		ResumeSummary{ExperienceYears: 4, Skills: []string{"go", "grpc"}},
		testVacancy("7", "Platform Engineer", "Acme"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if letter != "Dear Acme team, ..." {
		t.Fatalf("unexpected letter: %q", letter)
	}
	if !strings.Contains(stub.lastPrompt, "Platform Engineer") || !strings.Contains(stub.lastPrompt, "Acme") {
		t.Fatalf("prompt missing vacancy fields:\n%s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "4 years") {
		t.Fatalf("prompt missing experience:\n%s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("prompt has unexpanded placeholders:\n%s", stub.lastPrompt)
	}
}

func TestGeminiGeneratorPropagatesErrors(t *testing.T) {
	stub := &stubContentGenerator{err: errors.New("quota exceeded")}
	gen := NewGeminiGenerator(stub, zap.NewNop())

	if _, err := gen.Generate(context.Background(), ResumeSummary{}, testVacancy("7", "X", "Y")); err == nil {
		t.Fatalf("expected error to propagate")
	}
}
