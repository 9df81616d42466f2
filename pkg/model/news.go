package model

// NewsCandidate is a headline fetched from the news feed. Candidates are
// ephemeral; only the chosen one survives, as part of the Article.
type NewsCandidate struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Body returns the candidate's text, preferring full content over the
// description.
func (c *NewsCandidate) Body() string {
	if c.Content != "" {
		return c.Content
	}
	return c.Description
}
