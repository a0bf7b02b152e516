package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPChecker asks the bridge's callback endpoint for the current status
// of a reference id.
type HTTPChecker struct {
	URL    string
	Client *http.Client
}

func NewHTTPChecker(url string) *HTTPChecker {
	return &HTTPChecker{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type checkStatusRequest struct {
	ReferenceID string `json:"referenceId"`
	Action      string `json:"action"`
}

func (c *HTTPChecker) Check(ctx context.Context, referenceID string) (Result, error) {
	body, err := json.Marshal(checkStatusRequest{ReferenceID: referenceID, Action: "checkStatus"})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("status check: %d", resp.StatusCode)
	}
	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, err
	}
	return out, nil
}
