package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spigell/hh-matcher/internal/applier"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matcher"
	"github.com/spigell/hh-matcher/internal/resume"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes               = "Yes"
	PromptNo                = "No"
	PromptReportByEmployers = "Report by employers"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Apply to the matched vacancies?",
	Items: []string{PromptYes, PromptNo, PromptReportByEmployers},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match vacancies against a resume once and apply to the best of them",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume-file", "r", "", "path to a plain text resume (required)")
	runCmd.Flags().StringSlice("skills", nil, "skills used in generated cover letters")
	runCmd.Flags().Int("experience-years", 0, "years of experience used in generated cover letters")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation if found suitable vacancies")

	runCmd.MarkFlagRequired("resume-file")
}

// run is the one-shot command: search, rank, confirm, apply.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-matcher", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Search == nil || config.Search.Text == "" {
		logger.Fatal("search text is required under search.text to find vacancies")
	}

	eng, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring the engine", zap.Error(err))
	}

	entry, err := loadResume(cmd, eng.resumes)
	if err != nil {
		logger.Fatal("loading the resume", zap.Error(err))
	}

	logger.Info("starting the search", zap.String("search", config.Search.Text))

	vacancies, err := eng.hh.Search(ctx, config.Search.Text, 0)
	if err != nil {
		logger.Fatal("getting available vacancies", zap.Error(err))
	}

	logger.Info("getting vacancies", zap.Int("count", vacancies.Len()))

	if vacancies.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies found"))
		return
	}

	result := eng.ranker.Rank(entry.RawText, vacancies.Items, minScore(config), vacancies.Len())
	if result.Total == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies above the score threshold"))
		return
	}

	for _, match := range result.Matches {
		logger.Info("matched vacancy",
			zap.Int("rank", match.Rank),
			zap.Float64("score", match.Score),
			zap.String("vacancy_id", match.Vacancy.ID),
			zap.String("vacancy_name", match.Vacancy.Name),
			zap.String("employer", match.Vacancy.Employer.Name),
		)
	}

	for {
		action := PromptYes
		if cmd.Flag("auto-approve").Value.String() == "false" {
			var err error
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(ctx, action, eng, config, entry, result, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, eng *engine, config *Config, entry *resume.Resume, result *matcher.Result, logger *zap.Logger) error {
	switch action {
	case PromptYes:
		report := eng.scheduler.Run(ctx, &applier.Request{
			Resume:          entry,
			Matches:         result.Matches,
			MinScore:        minScore(config),
			MaxApplications: maxPerDay(config),
		})
		if report == nil {
			return errors.New("another application run is active")
		}

		logger.Info("application run finished",
			zap.Int("submitted", report.Submitted),
			zap.Int("attempted", report.Attempted),
			zap.Bool("stopped", report.Stopped),
		)
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByEmployers:
		pretty, _ := json.MarshalIndent(result.ReportByEmployer(), "", "  ")
		logger.Info(string(pretty), zap.Int("vacancies count", len(result.Matches)))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadResume(cmd *cobra.Command, store *resume.Store) (*resume.Resume, error) {
	path := cmd.Flag("resume-file").Value.String()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume file %q: %w", path, err)
	}

	skills, _ := cmd.Flags().GetStringSlice("skills")
	years, _ := cmd.Flags().GetInt("experience-years")

	id := store.Put(string(raw), resume.Analysis{
		Skills:          skills,
		ExperienceYears: years,
	})

	return store.Get(id)
}
