package headhunter

import "context"

const negotiationPath = "/negotiations"

// Apply submits an application for the vacancy with the provided cover
// letter. The call is paced like every other request but never retried here;
// the scheduler owns the retry policy.
func (c *Client) Apply(ctx context.Context, resumeID, vacancyID, message string) error {
	data := map[string]string{
		"resume_id":  resumeID,
		"vacancy_id": vacancyID,
		"message":    message,
	}

	return c.postFormData(ctx, negotiationPath, data)
}
