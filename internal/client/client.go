package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/model"
)

// ErrMissingInput is the user-facing text for empty owner or repo.
const ErrMissingInput = "Please enter both repository owner and repository name"

// Client posts analysis requests to the analysis service.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// New returns a client for endpoint. A zero timeout leaves requests unbounded.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// wireResult mirrors model.AnalysisResult with optional fields so shape errors are detectable.
type wireResult struct {
	Success  *bool     `json:"success"`
	ID       string    `json:"id"`
	Analysis *string   `json:"analysis"`
	Services *[]string `json:"services_array"`
	Error    *string   `json:"error"`
}

// Submit trims and validates the inputs, then issues exactly one POST to {endpoint}/analyze.
func (c *Client) Submit(ctx context.Context, owner, repo string) (*model.AnalysisResult, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, &ValidationError{Message: ErrMissingInput}
	}

	body, err := json.Marshal(model.AnalyzeRequest{Owner: owner, Repo: repo})
	if err != nil {
		return nil, err
	}

	url := c.Endpoint + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: c.Endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: c.Endpoint, Err: err}
	}

	return decodeResult(resp.StatusCode, data, owner, repo)
}

func decodeResult(status int, data []byte, owner, repo string) (*model.AnalysisResult, error) {
	var wr wireResult
	if err := json.Unmarshal(data, &wr); err != nil {
		return nil, &MalformedResponseError{StatusCode: status, Err: err}
	}

	if wr.Success == nil || !*wr.Success {
		if wr.Error != nil && *wr.Error != "" {
			return nil, &ApplicationError{StatusCode: status, Message: *wr.Error}
		}
		if wr.Success == nil {
			return nil, &MalformedResponseError{StatusCode: status, Err: errors.New(`missing "success" field`)}
		}
		return nil, &ApplicationError{StatusCode: status, Message: "Analysis failed"}
	}

	if status < 200 || status >= 300 {
		return nil, &MalformedResponseError{StatusCode: status, Err: fmt.Errorf("success reported with HTTP %d", status)}
	}

	if wr.Analysis == nil {
		return nil, &MalformedResponseError{StatusCode: status, Err: errors.New(`missing "analysis" field`)}
	}
	if wr.Services == nil {
		return nil, &MalformedResponseError{StatusCode: status, Err: errors.New(`missing "services_array" field`)}
	}
	services := *wr.Services
	if services == nil {
		services = []string{}
	}

	return &model.AnalysisResult{
		Success:  true,
		ID:       wr.ID,
		Owner:    owner,
		Repo:     repo,
		Analysis: *wr.Analysis,
		Services: services,
	}, nil
}
