package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/havenhome/haven-core/internal/infrastructure/config"
)

// defaultTimeout is the per-request timeout when the config does not set one.
const defaultTimeout = 10 * time.Second

// ErrNotAvailable is returned when a fetch is attempted on an
// installation without the supervisor subsystem.
var ErrNotAvailable = errors.New("supervisor: subsystem not available on this installation")

// Client talks to the supervisor subsystem's HTTP API.
//
// The supervisor is optional: on installations without it, Available()
// reports false and no requests are ever issued. Requests are not
// retried; a failed fetch is surfaced to the caller unchanged.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	http      *resty.Client
	available bool
}

// New creates a supervisor client from configuration.
//
// When the subsystem is disabled the returned client is inert: it
// issues no network calls and Fetch returns ErrNotAvailable.
//
// Parameters:
//   - cfg: Supervisor configuration from config.yaml
//
// Returns:
//   - *Client: Configured client
func New(cfg config.SupervisorConfig) *Client {
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	if cfg.Token != "" {
		http.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:      http,
		available: cfg.Enabled,
	}
}

// Available reports whether the supervisor subsystem is loaded on this
// installation. False is the normal state on bare installations, not an
// error.
func (c *Client) Available() bool {
	return c.available
}

// FetchOSInfo retrieves host operating system information.
func (c *Client) FetchOSInfo(ctx context.Context) (*OSInfo, error) {
	var env envelope[OSInfo]
	if err := c.get(ctx, "/os/info", &env); err != nil {
		return nil, fmt.Errorf("fetching OS info: %w", err)
	}
	return &env.Data, nil
}

// FetchMeta retrieves the supervisor's own metadata.
func (c *Client) FetchMeta(ctx context.Context) (*Meta, error) {
	var env envelope[Meta]
	if err := c.get(ctx, "/supervisor/info", &env); err != nil {
		return nil, fmt.Errorf("fetching supervisor info: %w", err)
	}
	return &env.Data, nil
}

// Fetch retrieves OS and supervisor information as a joint result.
//
// Both requests run concurrently; if either fails, the error is
// returned and no partial Info is produced.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - *Info: Joint OS + supervisor record
//   - error: ErrNotAvailable when the subsystem is absent, or the first
//     fetch failure
func (c *Client) Fetch(ctx context.Context) (*Info, error) {
	if !c.available {
		return nil, ErrNotAvailable
	}

	var (
		osInfo *OSInfo
		meta   *Meta
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		osInfo, err = c.FetchOSInfo(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = c.FetchMeta(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Info{OS: *osInfo, Meta: *meta}, nil
}

// HealthCheck verifies the supervisor API is reachable.
// On installations without the subsystem it reports healthy without
// issuing a request.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.available {
		return nil
	}

	var env envelope[struct{}]
	if err := c.get(ctx, "/supervisor/ping", &env); err != nil {
		return fmt.Errorf("supervisor health check: %w", err)
	}
	return nil
}

// get issues a GET request and decodes the supervisor envelope.
func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(out).
		Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("supervisor returned %s for %s", resp.Status(), path)
	}
	return nil
}
