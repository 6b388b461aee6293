package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ServiceCheck verifies the wishlist service answers HTTP requests.
type ServiceCheck struct {
	client  Doer
	baseURL string
	timeout time.Duration
}

// NewServiceCheck creates a new service reachability check.
func NewServiceCheck(client Doer, baseURL string) *ServiceCheck {
	return &ServiceCheck{client: client, baseURL: baseURL, timeout: 10 * time.Second}
}

func (c *ServiceCheck) Name() string {
	return "Service"
}

func (c *ServiceCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Reachable",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	resp, err := c.client.Do(req)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Reachable",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	detail := fmt.Sprintf("%s (status %d)", c.baseURL, resp.StatusCode)
	status := StatusPass
	if resp.StatusCode >= http.StatusInternalServerError {
		status = StatusWarn
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "Reachable",
		Status: status,
		Detail: detail,
	})
	return result
}
