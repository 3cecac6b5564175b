package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
)

// DefaultServer is used when neither --server nor KENNEL_SERVER is set
const DefaultServer = "http://localhost:8000"

// apiError is the error body every endpoint returns
type apiError struct {
	Error string `json:"error"`
}

// Client talks to a running KennelOS server
type Client struct {
	r *resty.Client
}

// NewClient creates a client for baseURL
func NewClient(baseURL string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetError(&apiError{})
	return &Client{r: r}
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		if e, ok := resp.Error().(*apiError); ok && e.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status(), e.Error)
		}
		return errors.New(resp.Status())
	}
	return nil
}

// CreateSession creates a remote desktop
func (c *Client) CreateSession(opts session.Options) (*session.Snapshot, error) {
	var snap session.Snapshot
	resp, err := c.r.R().SetBody(opts).SetResult(&snap).Post("/sessions")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &snap, nil
}

// Open opens path in a remote session
func (c *Client) Open(sessionID, path string, forceCreate bool) (*session.Snapshot, error) {
	var snap session.Snapshot
	resp, err := c.r.R().
		SetPathParam("id", sessionID).
		SetBody(map[string]interface{}{"path": path, "force_create": forceCreate}).
		SetResult(&snap).
		Post("/sessions/{id}/open")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &snap, nil
}

// Snapshot fetches the state of a remote session
func (c *Client) Snapshot(sessionID string) (*session.Snapshot, error) {
	var snap session.Snapshot
	resp, err := c.r.R().SetPathParam("id", sessionID).SetResult(&snap).Get("/sessions/{id}")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &snap, nil
}

// Sessions lists the live sessions
func (c *Client) Sessions() ([]session.Info, error) {
	var out struct {
		Sessions []session.Info `json:"sessions"`
	}
	resp, err := c.r.R().SetResult(&out).Get("/sessions")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out.Sessions, nil
}
