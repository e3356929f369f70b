package server

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/hh-matcher/internal/applier"
	"github.com/spigell/hh-matcher/internal/ledger"
	"github.com/spigell/hh-matcher/internal/resume"
	"github.com/spigell/hh-matcher/internal/stats"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultMinScore        = 0.3
	defaultStatusRecent    = 20
	statsEnrichmentLimit   = 10
	autoApplySearchPerPage = 100
)

type uploadResumeRequest struct {
	Text            string   `json:"text"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
}

func (s *Server) uploadResume(c *fiber.Ctx) error {
	var req uploadResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Text) == "" {
		return errorResponse(c, fiber.StatusBadRequest, "text is required")
	}

	id := s.deps.Resumes.Put(req.Text, resume.Analysis{
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
		Email:           req.Email,
		Phone:           req.Phone,
	})

	s.deps.Logger.Info("resume uploaded", zap.String("resume_id", id))

	return c.JSON(fiber.Map{"id": id})
}

func (s *Server) listResumes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"resumes": s.deps.Resumes.List()})
}

func (s *Server) getResume(c *fiber.Ctx) error {
	entry, err := s.deps.Resumes.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "resume not found")
		}
		return err
	}

	return c.JSON(entry)
}

func (s *Server) deleteResume(c *fiber.Ctx) error {
	if err := s.deps.Resumes.Delete(c.Params("id")); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "resume not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"deleted": c.Params("id")})
}

type matchItem struct {
	VacancyID string              `json:"vacancy_id"`
	Name      string              `json:"name"`
	Employer  string              `json:"employer"`
	Area      string              `json:"area"`
	URL       string              `json:"url"`
	Score     float64             `json:"score"`
	Rank      int                 `json:"rank"`
	Stats     *stats.VacancyStats `json:"stats,omitempty"`
}

type matchResponse struct {
	Matches []matchItem `json:"matches"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	HasMore bool        `json:"has_more"`
}

func (s *Server) match(c *fiber.Ctx) error {
	resumeID := c.Query("resume_id")
	query := c.Query("query")
	if resumeID == "" || query == "" {
		return errorResponse(c, fiber.StatusBadRequest, "resume_id and query are required")
	}

	entry, err := s.deps.Resumes.Get(resumeID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "resume not found")
		}
		return err
	}

	page := c.QueryInt("page", 0)
	pageSize := c.QueryInt("page_size", 10)
	minScore := c.QueryFloat("min_score", 0)

	vacancies, err := s.deps.Search.Search(c.UserContext(), query, page)
	if err != nil {
		s.deps.Logger.Error("vacancy search failed", zap.Error(err))
		return errorResponse(c, fiber.StatusBadGateway, "vacancy source unavailable")
	}

	result := s.deps.Ranker.Rank(entry.RawText, vacancies.Items, minScore, pageSize)

	resp := matchResponse{
		Matches: make([]matchItem, 0, len(result.Matches)),
		Total:   result.Total,
		Page:    page,
		HasMore: result.HasMore,
	}

	for i, match := range result.Matches {
		item := matchItem{
			VacancyID: match.Vacancy.ID,
			Name:      match.Vacancy.Name,
			Employer:  match.Vacancy.Employer.Name,
			Area:      match.Vacancy.Area.Name,
			URL:       match.Vacancy.AlternateURL,
			Score:     match.Score,
			Rank:      match.Rank,
		}

		if s.deps.Stats != nil && i < statsEnrichmentLimit {
			vs, statsErr := s.deps.Stats.VacancyStats(c.UserContext(), match.Vacancy.ID)
			if statsErr != nil {
				s.deps.Logger.Warn("stats enrichment failed",
					zap.String("vacancy_id", match.Vacancy.ID), zap.Error(statsErr))
			} else {
				item.Stats = vs
			}
		}

		resp.Matches = append(resp.Matches, item)
	}

	return c.JSON(resp)
}

func (s *Server) vacancyStats(c *fiber.Ctx) error {
	vacancyID := c.Query("vacancy_id")
	if vacancyID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "vacancy_id is required")
	}

	if s.deps.Stats == nil {
		return errorResponse(c, fiber.StatusNotImplemented, "stats are not configured")
	}

	vs, err := s.deps.Stats.VacancyStats(c.UserContext(), vacancyID)
	if err != nil {
		s.deps.Logger.Error("vacancy stats lookup failed", zap.Error(err))
		return errorResponse(c, fiber.StatusBadGateway, "vacancy source unavailable")
	}

	return c.JSON(vs)
}

type startAutoApplyRequest struct {
	ResumeID        string  `json:"resume_id"`
	Query           string  `json:"query"`
	MinScore        float64 `json:"min_score"`
	MaxApplications int     `json:"max_applications"`
}

func (s *Server) startAutoApply(c *fiber.Ctx) error {
	var req startAutoApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.ResumeID == "" || req.Query == "" {
		return errorResponse(c, fiber.StatusBadRequest, "resume_id and query are required")
	}
	if req.MinScore <= 0 {
		req.MinScore = defaultMinScore
	}

	entry, err := s.deps.Resumes.Get(req.ResumeID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "resume not found")
		}
		return err
	}

	vacancies, err := s.deps.Search.Search(c.UserContext(), req.Query, 0)
	if err != nil {
		s.deps.Logger.Error("vacancy search failed", zap.Error(err))
		return errorResponse(c, fiber.StatusBadGateway, "vacancy source unavailable")
	}

	result := s.deps.Ranker.Rank(entry.RawText, vacancies.Items, req.MinScore, autoApplySearchPerPage)

	// The run outlives this request, so it is detached from the request
	// context on purpose. Stop is the way to cancel it.
	started := s.deps.Scheduler.Start(context.Background(), &applier.Request{
		Resume:          entry,
		Matches:         result.Matches,
		MinScore:        req.MinScore,
		MaxApplications: req.MaxApplications,
	})

	// A start while a run is active is a no-op, not an error.
	if !started {
		return c.JSON(fiber.Map{
			"started": false,
			"state":   applier.StateRunning,
		})
	}

	s.deps.Logger.Info("auto apply started",
		zap.String("resume_id", req.ResumeID),
		zap.Int("matches", len(result.Matches)),
	)

	return c.JSON(fiber.Map{
		"started": true,
		"state":   applier.StateRunning,
		"matches": len(result.Matches),
	})
}

func (s *Server) stopAutoApply(c *fiber.Ctx) error {
	s.deps.Scheduler.Stop()
	return c.JSON(fiber.Map{"state": s.deps.Scheduler.State()})
}

func (s *Server) applicationStatus(c *fiber.Ctx) error {
	summary := ledger.Summary{}
	for _, status := range []ledger.Status{ledger.StatusPending, ledger.StatusSent, ledger.StatusFailed} {
		apps, err := s.deps.Ledger.ByStatus(c.UserContext(), status)
		if err != nil {
			return err
		}
		partial := ledger.Summarize(apps)
		summary.Total += partial.Total
		summary.Pending += partial.Pending
		summary.Sent += partial.Sent
		summary.Failed += partial.Failed
	}

	recent, err := s.deps.Ledger.Recent(c.UserContext(), defaultStatusRecent)
	if err != nil {
		return err
	}

	resp := fiber.Map{
		"state":   s.deps.Scheduler.State(),
		"summary": summary,
		"recent":  recent,
	}
	if report := s.deps.Scheduler.LastReport(); report != nil {
		resp["last_run"] = report
	}

	return c.JSON(resp)
}
