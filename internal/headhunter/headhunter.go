// Package headhunter is a paced client for the HeadHunter API. All outbound
// requests pass through a single pacing gate that enforces a minimum spacing
// between consecutive calls. The client never retries on its own: retry
// policy belongs to the caller so that backoff stays centrally auditable.
package headhunter

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/hh-matcher (spigelly@gmail.com)"

	// Minimum spacing between consecutive outbound requests.
	defaultPacing = 200 * time.Millisecond
)

// SourceUnavailableError is returned when the listing service answers with a
// non-2xx status.
type SourceUnavailableError struct {
	StatusCode int
	Status     string
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("listing service unavailable: %s", e.Status)
}

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	// pacing gate. Concurrent callers serialize here; lastDone is the
	// completion time of the previous request.
	paceMu   sync.Mutex
	interval time.Duration
	lastDone time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
		interval:  defaultPacing,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// pace blocks until the pacing interval since the previous request completed
// has elapsed, then holds the gate. The returned release func records the
// completion time and must be called once the request finishes.
func (c *Client) pace() (release func()) {
	c.paceMu.Lock()

	if !c.lastDone.IsZero() {
		if wait := c.interval - c.now().Sub(c.lastDone); wait > 0 {
			c.sleep(wait)
		}
	}

	return func() {
		c.lastDone = c.now()
		c.paceMu.Unlock()
	}
}
