package transport

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/parnurzeal/gorequest"
	"github.com/rs/zerolog"

	"github.com/fabricsync/fabricsync/pkg/batch"
	"github.com/fabricsync/fabricsync/pkg/log"
)

// Error is a transport-level failure: connectivity or a non-2xx
// answer. Protocol-level disagreement is not a transport error and is
// classified by the caller.
type Error struct {
	Path   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error on %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("transport error on %s: controller returned %d", e.Path, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is the HTTP JSON transport to one controller endpoint.
type Client struct {
	agent   *gorequest.SuperAgent
	baseURL string
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.agent.Timeout(d) }
}

// WithInsecureTLS disables certificate verification. Lab use only.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.agent.TLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
}

// WithBasicAuth sets controller credentials.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) { c.agent.SetBasicAuth(user, password) }
}

// NewClient creates a transport rooted at baseURL, e.g.
// "https://cvx01:443/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		agent:   gorequest.New().Timeout(30 * time.Second),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithComponent("transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues one request and parses the JSON response. The body may
// be a single record or a sequence; DELETE bodies are permitted, the
// controller protocol requires them. No retries happen here.
func (c *Client) Send(path string, verb batch.Verb, body interface{}) ([]map[string]interface{}, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var req *gorequest.SuperAgent
	switch verb {
	case batch.GET:
		req = c.agent.Get(url)
	case batch.POST:
		req = c.agent.Post(url)
	case batch.PUT:
		req = c.agent.Put(url)
	case batch.DELETE:
		req = c.agent.Delete(url)
	default:
		return nil, fmt.Errorf("unsupported verb %q", verb)
	}
	req.Set("Accept", "application/json")
	if body != nil {
		req.Send(body)
	}

	resp, raw, errs := req.EndBytes()
	if len(errs) > 0 {
		return nil, &Error{Path: path, Err: errs[0]}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("controller rejected request")
		return nil, &Error{Path: path, Status: resp.StatusCode}
	}
	return decodeBody(raw)
}

// decodeBody accepts both list and single-object responses; the
// controller uses both shapes.
func decodeBody(raw []byte) ([]map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single map[string]interface{}
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("failed to decode controller response: %w", err)
	}
	return []map[string]interface{}{single}, nil
}

// Reachable reports whether the controller answers at all. Used by
// the daemon when choosing among configured endpoints.
func (c *Client) Reachable() bool {
	resp, _, errs := c.agent.Get(c.baseURL + "/region/").Set("Accept", "application/json").EndBytes()
	if len(errs) > 0 || resp == nil {
		return false
	}
	return resp.StatusCode != http.StatusServiceUnavailable
}
