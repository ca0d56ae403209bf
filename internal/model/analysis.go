package model

// AnalyzeRequest is the body posted to the analysis service.
type AnalyzeRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// AnalysisResult is the analysis service's response.
type AnalysisResult struct {
	Success  bool     `json:"success"`
	ID       string   `json:"id,omitempty"`
	Owner    string   `json:"owner,omitempty"`
	Repo     string   `json:"repo,omitempty"`
	Analysis string   `json:"analysis"`
	Services []string `json:"services_array"`
	Error    string   `json:"error,omitempty"`
}

// FullName returns "owner/repo".
func (r AnalyzeRequest) FullName() string {
	return r.Owner + "/" + r.Repo
}
