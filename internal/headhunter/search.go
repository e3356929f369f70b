package headhunter

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

const (
	searchPath = "/vacancies"

	// Search defaults are deliberately not tunable per call: one page of 50
	// vacancies from the last 30 days in the default area, newest first.
	searchPerPage = 50
	searchPeriod  = 30
	searchArea    = 1
	searchOrder   = "publication_time"
)

var searchFields = []string{"name", "company_name", "description"}

type searchResponse struct {
	Items   []interface{}
	Found   int
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

// Search returns one page of vacancies matching the query. Pagination across
// pages is the caller's concern; the page index maps directly onto the
// remote service's page parameter.
func (c *Client) Search(ctx context.Context, query string, page int) (*Vacancies, error) {
	q := url.Values{}
	q.Set("text", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(searchPerPage))
	q.Set("period", strconv.Itoa(searchPeriod))
	q.Set("area", strconv.Itoa(searchArea))
	q.Set("order_by", searchOrder)
	for _, field := range searchFields {
		q.Add("search_field", field)
	}

	var response searchResponse
	if err := c.getJSON(ctx, searchPath, q, &response); err != nil {
		return nil, err
	}

	var vacancies []*Vacancy
	cfg := &mapstructure.DecoderConfig{
		Result:  &vacancies,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Items); err != nil {
		return nil, err
	}

	return &Vacancies{Items: vacancies}, nil
}

// GetVacancy fetches the detailed description of a single vacancy.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	var vacancy Vacancy
	if err := c.getJSON(ctx, searchPath+"/"+id, nil, &vacancy); err != nil {
		return nil, err
	}

	return &vacancy, nil
}
