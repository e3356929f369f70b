package headhunter

import (
	"strings"
)

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Salary struct {
		From     int    `json:"from,omitempty"`
		To       int    `json:"to,omitempty"`
		Currency string `json:"currency,omitempty"`
	} `json:"salary,omitempty"`
	Experience struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
		URL  string `json:"url,omitempty"`
	} `json:"employer,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	Snippet      struct {
		Requirement    string `json:"requirement,omitempty"`
		Responsibility string `json:"responsibility,omitempty"`
	} `json:"snippet,omitempty"`
	PublishedAt            string `json:"published_at,omitempty"`
	ResponseLetterRequired bool   `json:"response_letter_required,omitempty"`
}

// DescriptionText assembles the text used for relevance scoring: name, then
// responsibility, then requirement, each appended only when non-empty. The
// assembly order is fixed so repeated ranking calls see identical documents.
func (v *Vacancy) DescriptionText() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{v.Name, v.Snippet.Responsibility, v.Snippet.Requirement} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}
