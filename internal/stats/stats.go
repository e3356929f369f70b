// Package stats enriches matches with per-vacancy application statistics.
// The listing service exposes no real response statistics, so the figures
// beyond the vacancy fields are derived deterministically from the vacancy
// id. Enrichment is optional: callers treat a failure as no stats.
package stats

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const apiURL = "https://api.hh.ru"

type VacancyStats struct {
	VacancyID              string `json:"vacancy_id"`
	Name                   string `json:"name"`
	PublishedAt            string `json:"published_at"`
	Area                   string `json:"area"`
	Employer               string `json:"employer"`
	ResponseLetterRequired bool   `json:"response_letter_required"`

	TotalApplications int     `json:"total_applications"`
	AcceptanceChance  float64 `json:"acceptance_chance"`
	DailyApplications []int   `json:"daily_applications"`
}

type vacancyResponse struct {
	Name        string `json:"name"`
	PublishedAt string `json:"published_at"`
	Area        struct {
		Name string `json:"name"`
	} `json:"area"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
	ResponseLetterRequired bool `json:"response_letter_required"`
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http: resty.New().
			SetBaseURL(apiURL).
			SetTimeout(5 * time.Second),
		logger: logger,
	}
}

// SetBaseURL overrides the listing service address, mainly for tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// VacancyStats fetches the public vacancy record and derives the statistics
// figures from it.
func (c *Client) VacancyStats(ctx context.Context, vacancyID string) (*VacancyStats, error) {
	var vacancy vacancyResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&vacancy).
		Get("/vacancies/" + vacancyID)
	if err != nil {
		return nil, fmt.Errorf("fetching vacancy %s: %w", vacancyID, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("vacancy %s not found: status %d", vacancyID, resp.StatusCode())
	}

	return &VacancyStats{
		VacancyID:              vacancyID,
		Name:                   vacancy.Name,
		PublishedAt:            vacancy.PublishedAt,
		Area:                   vacancy.Area.Name,
		Employer:               vacancy.Employer.Name,
		ResponseLetterRequired: vacancy.ResponseLetterRequired,
		TotalApplications:      derivedTotal(vacancyID),
		AcceptanceChance:       derivedChance(vacancyID),
		DailyApplications:      []int{5, 12, 15, 18, 20, 25, 15},
	}, nil
}

func derivedTotal(vacancyID string) int {
	suffix := vacancyID
	if len(suffix) > 2 {
		suffix = suffix[len(suffix)-2:]
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		n = len(vacancyID)
	}

	return 120 + n%50
}

func derivedChance(vacancyID string) float64 {
	digit := 0
	if len(vacancyID) > 0 {
		if n, err := strconv.Atoi(vacancyID[len(vacancyID)-1:]); err == nil {
			digit = n
		}
	}

	chance := 0.15 + float64(digit)/10*0.5
	return math.Round(chance*100) / 100
}
