package coverletter

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/spigell/hh-matcher/internal/headhunter"
)

const (
	maxSkillsInLetter = 3

	fallbackPosition = "this position"
	fallbackCompany  = "your company"
	fallbackSkills   = "software development"
)

var letterTemplates = []string{
	`Hello!

I am interested in the %[1]s position at %[2]s. My %[3]d years of experience in %[4]s fit this role well.

My resume covers my projects and achievements in detail. I would be glad to discuss the details at a time convenient for you.

Best regards.`,

	`Good afternoon!

I am considering joining the %[2]s team for the %[1]s position. I have %[3]d years of development experience with %[4]s.

I would be happy to contribute to your projects.

Best regards.`,
}

// TemplateGenerator fills one of a fixed set of letter templates. It is a
// pure function of its inputs: the template is picked from a hash of the
// vacancy id, so the same pair always produces the same letter.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) Generate(_ context.Context, summary ResumeSummary, vacancy *headhunter.Vacancy) (string, error) {
	position := fallbackPosition
	company := fallbackCompany

	if vacancy != nil {
		if vacancy.Name != "" {
			position = vacancy.Name
		}
		if vacancy.Employer.Name != "" {
			company = vacancy.Employer.Name
		}
	}

	skills := summary.Skills
	if len(skills) > maxSkillsInLetter {
		skills = skills[:maxSkillsInLetter]
	}
	skillsText := strings.Join(skills, ", ")
	if skillsText == "" {
		skillsText = fallbackSkills
	}

	template := letterTemplates[templateIndex(vacancy)]

	return fmt.Sprintf(template, position, company, summary.ExperienceYears, skillsText), nil
}

func templateIndex(vacancy *headhunter.Vacancy) int {
	if vacancy == nil {
		return 0
	}

	h := fnv.New32a()
	h.Write([]byte(vacancy.ID))
	return int(h.Sum32() % uint32(len(letterTemplates)))
}
