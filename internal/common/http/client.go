// internal/common/http/client.go
package http

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a thin resty wrapper shared by outbound integrations.
type Client struct {
	rc *resty.Client
}

// NewClient builds a JSON client. Retries cover transport errors, 429 and 5xx.
func NewClient(baseURL string, timeout time.Duration, retries int) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &Client{rc: rc}
}

// SetAuthToken sets a bearer token on every request.
func (c *Client) SetAuthToken(token string) *Client {
	c.rc.SetAuthToken(token)
	return c
}

// Resty exposes the underlying client for request building.
func (c *Client) Resty() *resty.Client {
	return c.rc
}
