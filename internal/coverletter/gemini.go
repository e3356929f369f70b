package coverletter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

//go:embed letter_prompt.md
var letterPrompt string

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiClient wraps the Google GenAI client for prompt-based generation.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &GeminiClient{client: client, modelName: model}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// GeminiGenerator builds cover letters with a language model. Errors bubble
// up so the scheduler can fall back to the template generator.
type GeminiGenerator struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewGeminiGenerator(generator contentGenerator, logger *zap.Logger) *GeminiGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiGenerator{generator: generator, logger: logger}
}

func (g *GeminiGenerator) Generate(ctx context.Context, summary ResumeSummary, vacancy *headhunter.Vacancy) (string, error) {
	if vacancy == nil {
		return "", errors.New("vacancy is required")
	}

	prompt := buildLetterPrompt(summary, vacancy)

	letter, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating cover letter: %w", err)
	}

	g.logger.Debug("generated cover letter",
		zap.String("vacancy_id", vacancy.ID),
		zap.String("letter", utils.TruncateForLog(letter, 200)),
	)

	return letter, nil
}

func buildLetterPrompt(summary ResumeSummary, vacancy *headhunter.Vacancy) string {
	skills := strings.Join(summary.Skills, ", ")
	if skills == "" {
		skills = fallbackSkills
	}

	replacer := strings.NewReplacer(
		"{{position}}", vacancy.Name,
		"{{company}}", vacancy.Employer.Name,
		"{{experience_years}}", fmt.Sprintf("%d", summary.ExperienceYears),
		"{{skills}}", skills,
	)

	return replacer.Replace(letterPrompt)
}
