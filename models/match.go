package models

type MatchPostRequest struct {
	// Text to compare against the questions of the container.
	Text string `json:"text"`
	// Limit of results, defaults to 3.
	Limit int `json:"limit,omitempty"`
}

type MatchPostResponse struct {
	Results []MatchResult `json:"results"`
}

type MatchResult struct {
	Document QADocument `json:"document"`
	Distance float64    `json:"distance"`
}
