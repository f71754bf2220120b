package cloud

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// DefaultBaseURL is the Particle cloud API endpoint.
const DefaultBaseURL = "https://api.particle.io"

// Particle issues tokens to this public client for password grants.
const (
	oauthClientID     = "particle"
	oauthClientSecret = "particle"
)

// ParticleClient implements Cloud against the Particle REST API.
type ParticleClient struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type variableResponse struct {
	Name   string `json:"name"`
	Result any    `json:"result"`
}

type publishResponse struct {
	OK bool `json:"ok"`
}

// apiError is the error body the Particle API returns.
type apiError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Info        string `json:"info"`
}

func (e *apiError) message(resp *resty.Response) string {
	switch {
	case e.Description != "":
		return e.Description
	case e.Info != "":
		return e.Info
	case e.Error != "":
		return e.Error
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
}

// NewParticleClient creates a client for the API at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewParticleClient(baseURL string) *ParticleClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	r := resty.New()
	r.SetBaseURL(strings.TrimRight(baseURL, "/"))
	r.SetHeader("Accept", "application/json")

	return &ParticleClient{http: r}
}

// SetToken installs an access token obtained elsewhere.
func (c *ParticleClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current access token.
func (c *ParticleClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// authed starts a request carrying the access token.
func (c *ParticleClient) authed(ctx context.Context) (*resty.Request, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

func (c *ParticleClient) Login(ctx context.Context, user, password string) error {
	var out tokenResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(oauthClientID, oauthClientSecret).
		SetFormData(map[string]string{
			"grant_type": "password",
			"username":   user,
			"password":   password,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/oauth/token")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.New(apiErr.message(resp))
	}
	if out.AccessToken == "" {
		return errors.New("login succeeded but no access token returned")
	}

	c.SetToken(out.AccessToken)
	log.Debug().Int("expires_in", out.ExpiresIn).Msg("Particle access token issued")
	return nil
}

// Logout drops the access token. Later requests fail with ErrNotLoggedIn.
func (c *ParticleClient) Logout() {
	c.SetToken("")
}

func (c *ParticleClient) ListDevices(ctx context.Context) ([]Device, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var devices []Device
	var apiErr apiError
	resp, err := req.SetResult(&devices).SetError(&apiErr).Get("/v1/devices")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.New(apiErr.message(resp))
	}

	// The listing omits variables; only connected devices can be asked.
	// A device whose detail cannot be fetched is reported as disconnected.
	for i := range devices {
		if !devices[i].Connected {
			continue
		}
		detail, err := c.getDevice(ctx, devices[i].ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("device", devices[i].Name).Msg("Failed to fetch device detail, skipping")
			devices[i].Connected = false
			continue
		}
		devices[i].Variables = detail.Variables
	}

	return devices, nil
}

func (c *ParticleClient) getDevice(ctx context.Context, id string) (*Device, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var d Device
	var apiErr apiError
	resp, err := req.
		SetPathParam("id", id).
		SetResult(&d).
		SetError(&apiErr).
		Get("/v1/devices/{id}")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.New(apiErr.message(resp))
	}
	return &d, nil
}

func (c *ParticleClient) GetVariable(ctx context.Context, deviceID, name string) (string, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return "", err
	}

	var out variableResponse
	var apiErr apiError
	resp, err := req.
		SetPathParams(map[string]string{"id": deviceID, "name": name}).
		SetResult(&out).
		SetError(&apiErr).
		Get("/v1/devices/{id}/{name}")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", errors.New(apiErr.message(resp))
	}

	// Firmware may declare int or double variables.
	value, err := cast.ToStringE(out.Result)
	if err != nil {
		return "", fmt.Errorf("variable %s: %w", name, err)
	}
	return value, nil
}

func (c *ParticleClient) PublishEvent(ctx context.Context, evt OutboundEvent) error {
	req, err := c.authed(ctx)
	if err != nil {
		return err
	}

	var out publishResponse
	var apiErr apiError
	resp, err := req.
		SetFormData(map[string]string{
			"name":    evt.Name,
			"data":    evt.Data,
			"private": strconv.FormatBool(evt.Private),
			"ttl":     strconv.Itoa(int(evt.TTL / time.Second)),
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/devices/events")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s", ErrPublish, apiErr.message(resp))
	}
	if !out.OK {
		return fmt.Errorf("%w: cloud did not accept event %s", ErrPublish, evt.Name)
	}
	return nil
}

func (c *ParticleClient) Subscribe(ctx context.Context, prefix string) (<-chan Event, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetDoNotParseResponse(true).
		SetHeader("Accept", "text/event-stream").
		SetPathParam("prefix", prefix).
		Get("/v1/devices/events/{prefix}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}

	body := resp.RawBody()
	if resp.IsError() {
		_ = body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrStream, resp.StatusCode())
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer func() { _ = body.Close() }()

		if err := readEventStream(ctx, body, events); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("Event stream ended")
		}
	}()

	log.Info().Str("prefix", prefix).Msg("Subscribed to event stream")
	return events, nil
}
