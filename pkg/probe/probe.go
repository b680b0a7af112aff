// Package probe performs the single outbound read the contact page depends
// on: a GET of a fixed resource, reported as status, reason phrase and
// whether the body carries an expected marker. Failures are reported, never
// retried.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultURL is the hosted copy of the contact page.
	DefaultURL = "https://cac-tat.s3.eu-central-1.amazonaws.com/index.html"
	// DefaultExpect is the marker the page body must contain.
	DefaultExpect = "CAC TAT"
	// DefaultTimeout bounds the whole request.
	DefaultTimeout = 10 * time.Second
)

// Result is what the probe observed.
type Result struct {
	URL              string `json:"url"`
	Status           int    `json:"status"`
	Reason           string `json:"reason"`
	ContainsExpected bool   `json:"containsExpected"`
	Body             []byte `json:"-"`
}

// OK reports a 200 response whose body contains the expected marker.
func (r Result) OK() bool {
	return r.Status == http.StatusOK && r.ContainsExpected
}

// Option configures a Probe.
type Option func(*Probe)

// WithHTTPClient overrides the HTTP client used for the request.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Probe) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout overrides DefaultTimeout. Zero disables the per-request bound.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Probe) {
		if timeout >= 0 {
			p.timeout = timeout
		}
	}
}

// WithLogger routes debug output to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Probe) {
		if logger != nil {
			p.log = logger
		}
	}
}

// Probe issues the network check.
type Probe struct {
	client  *http.Client
	timeout time.Duration
	log     logrus.FieldLogger
}

// New builds a Probe using http.DefaultClient unless overridden.
func New(options ...Option) *Probe {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p := &Probe{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		log:     logger,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Check fetches url once and reports the status line and whether the body
// contains expect. Empty url and expect fall back to DefaultURL and
// DefaultExpect. Non-2xx responses are results, not errors; transport
// failures are returned.
func (p *Probe) Check(ctx context.Context, url, expect string) (Result, error) {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if expect == "" {
		expect = DefaultExpect
	}

	reqCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("probe: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("probe: get %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil && !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("probe: read body: %w", err)
	}

	result := Result{
		URL:              url,
		Status:           resp.StatusCode,
		Reason:           reasonPhrase(resp),
		ContainsExpected: bytes.Contains(body, []byte(expect)),
		Body:             body,
	}
	p.log.WithFields(logrus.Fields{
		"url":      url,
		"status":   result.Status,
		"contains": result.ContainsExpected,
	}).Debug("probe: checked")
	return result, nil
}

// reasonPhrase extracts "OK" from a "200 OK" status line, falling back to the
// canonical text when the server sent none.
func reasonPhrase(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
