package domain

// AnalysisRequest is the decoded POST body. Idea and Content are interchangeable.
type AnalysisRequest struct {
	Idea    string `json:"idea,omitempty"`
	Content string `json:"content,omitempty"`
}

// Candidates lists the fields in the order they are considered.
func (r AnalysisRequest) Candidates() []string {
	return []string{r.Idea, r.Content}
}
