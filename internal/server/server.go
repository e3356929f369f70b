// Package server exposes the matching engine over HTTP. Handlers are thin
// glue: parsing, the calls into the engine packages and response shaping.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/hh-matcher/internal/applier"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/ledger"
	"github.com/spigell/hh-matcher/internal/matcher"
	"github.com/spigell/hh-matcher/internal/resume"
	"github.com/spigell/hh-matcher/internal/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// VacancySearcher is the slice of the listing client the server needs.
type VacancySearcher interface {
	Search(ctx context.Context, query string, page int) (*headhunter.Vacancies, error)
}

// StatsProvider enriches matches with per-vacancy statistics. Optional.
type StatsProvider interface {
	VacancyStats(ctx context.Context, vacancyID string) (*stats.VacancyStats, error)
}

type Deps struct {
	Logger    *zap.Logger
	Resumes   *resume.Store
	Search    VacancySearcher
	Ranker    *matcher.Ranker
	Scheduler *applier.Scheduler
	Ledger    ledger.Ledger
	Stats     StatsProvider
}

type Server struct {
	app  *fiber.App
	deps Deps
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName: "hh-matcher",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return errorResponse(c, code, err.Error())
		},
	})

	app.Use(recover.New())

	s := &Server{app: app, deps: deps}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Post("/upload-resume", limiter.New(limiter.Config{
		Max:               5,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
	}), s.uploadResume)

	s.app.Get("/resumes", s.listResumes)
	s.app.Get("/resumes/:id", s.getResume)
	s.app.Delete("/resumes/:id", s.deleteResume)

	s.app.Get("/match", s.match)
	s.app.Get("/vacancy-stats", s.vacancyStats)

	s.app.Post("/bot/start-auto-apply", s.startAutoApply)
	s.app.Post("/bot/stop-auto-apply", s.stopAutoApply)
	s.app.Get("/bot/application-status", s.applicationStatus)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.deps.Logger.Info("starting http server", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
