package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/hh-matcher/internal/applier"
	"github.com/spigell/hh-matcher/internal/coverletter"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/ledger"
	"github.com/spigell/hh-matcher/internal/matcher"
	"github.com/spigell/hh-matcher/internal/resume"
	"github.com/spigell/hh-matcher/internal/secrets"
	"github.com/spigell/hh-matcher/internal/stats"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultMinScore = 0.3

// engine bundles the wired components shared by the serve and run commands.
type engine struct {
	hh        *headhunter.Client
	resumes   *resume.Store
	ranker    *matcher.Ranker
	ledger    ledger.Ledger
	scheduler *applier.Scheduler
	stats     *stats.Client
}

func newEngine(ctx context.Context, config *Config, logger *zap.Logger) (*engine, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	stub := config.Apply != nil && config.Apply.Stub

	token, err := resolveToken(config)
	if err != nil && !stub {
		return nil, fmt.Errorf("%w (set HH_TOKEN_FILE or the 'token-file' configuration key)", err)
	}

	hh := headhunter.New(logger, token)

	var ldgr ledger.Ledger = ledger.NewMemory()
	if config.Database != nil && config.Database.Path != "" {
		sqlite, err := ledger.NewSQLite(config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening application ledger: %w", err)
		}
		ldgr = sqlite
		logger.Info("using sqlite ledger", zap.String("path", config.Database.Path))
	}

	var submitter applier.Submitter
	if stub {
		submitter = &applier.StubSubmitter{Logger: logger}
		logger.Info("submissions are stubbed, nothing will be sent")
	} else {
		submitter = &applier.HeadHunterSubmitter{Client: hh}
	}

	letters, err := newLetterGenerator(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	return &engine{
		hh:        hh,
		resumes:   resume.NewStore(),
		ranker:    matcher.NewRanker(logger),
		ledger:    ldgr,
		scheduler: applier.New(submitter, letters, ldgr, logger),
		stats:     stats.New(logger),
	}, nil
}

// newLetterGenerator returns nil when AI is disabled, which makes the
// scheduler fall back to the built-in templates.
func newLetterGenerator(ctx context.Context, config *AIConfig, logger *zap.Logger) (coverletter.Generator, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	if config.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	client, err := coverletter.NewGeminiClient(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("building gemini client: %w", err)
	}

	return coverletter.NewGeminiGenerator(client, logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.Gemini.Model),
	)), nil
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("headhunter token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "headhunter token",
		File: tokenFile,
	})
}

func minScore(config *Config) float64 {
	if config.Apply != nil && config.Apply.MinScore > 0 {
		return config.Apply.MinScore
	}
	return defaultMinScore
}

func maxPerDay(config *Config) int {
	if config.Apply != nil {
		return config.Apply.MaxPerDay
	}
	return 0
}
