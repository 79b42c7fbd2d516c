package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/config"
	"github.com/hireloop/interview-core-go/internal/model"
)

// Participant is a live room member as reported by the transport backend.
type Participant struct {
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
	State    string `json:"state,omitempty"`
}

// Provider is the real-time transport backend contract. Every call carries
// an enforced timeout and is never retried here.
type Provider interface {
	HealthCheck(ctx context.Context, region model.Region) error
	ListParticipants(ctx context.Context, region model.Region, roomName string) ([]Participant, error)
	RemoveParticipant(ctx context.Context, region model.Region, roomName, identity string) error
	DeleteRoom(ctx context.Context, region model.Region, roomName string) error
	// SendData delivers a reliable data message to the named identities.
	SendData(ctx context.Context, region model.Region, roomName string, identities []string, payload []byte) error
	// ServerURL returns the client-facing endpoint for a region, embedded in
	// credential bundles.
	ServerURL(region model.Region) string
}

// Client talks to the transport backend's per-region HTTP API.
type Client struct {
	regionURLs map[model.Region]string
	minter     *TokenMinter
	httpClient *http.Client
	probe      *http.Client
}

func NewClient(usEastURL, apSouthURL string, minter *TokenMinter) *Client {
	return &Client{
		regionURLs: map[model.Region]string{
			model.RegionUSEast:  usEastURL,
			model.RegionAPSouth: apSouthURL,
		},
		minter: minter,
		httpClient: &http.Client{
			Timeout: config.TransportCallTimeout,
		},
		probe: &http.Client{
			Timeout: config.RegionProbeTimeout,
		},
	}
}

func (c *Client) ServerURL(region model.Region) string {
	return c.regionURLs[region]
}

func (c *Client) HealthCheck(ctx context.Context, region model.Region) error {
	endpoint, err := c.endpoint(region, "/health")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.probe.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn().
			Err(err).
			Str("region", string(region)).
			Dur("elapsed", elapsed).
			Msg("region health probe failed")
		return fmt.Errorf("health probe %s: %w", region, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe %s: status %d", region, resp.StatusCode)
	}

	log.Debug().
		Str("region", string(region)).
		Dur("elapsed", elapsed).
		Msg("region healthy")
	return nil
}

func (c *Client) ListParticipants(ctx context.Context, region model.Region, roomName string) ([]Participant, error) {
	var result struct {
		Participants []Participant `json:"participants"`
	}
	path := fmt.Sprintf("/rooms/%s/participants", url.PathEscape(roomName))
	if err := c.do(ctx, region, http.MethodGet, path, roomName, nil, &result); err != nil {
		return nil, err
	}
	return result.Participants, nil
}

func (c *Client) RemoveParticipant(ctx context.Context, region model.Region, roomName, identity string) error {
	path := fmt.Sprintf("/rooms/%s/participants/%s", url.PathEscape(roomName), url.PathEscape(identity))
	return c.do(ctx, region, http.MethodDelete, path, roomName, nil, nil)
}

func (c *Client) DeleteRoom(ctx context.Context, region model.Region, roomName string) error {
	path := fmt.Sprintf("/rooms/%s", url.PathEscape(roomName))
	return c.do(ctx, region, http.MethodDelete, path, roomName, nil, nil)
}

func (c *Client) SendData(ctx context.Context, region model.Region, roomName string, identities []string, payload []byte) error {
	body := map[string]any{
		"destinationIdentities": identities,
		"payload":               payload,
		"reliable":              true,
	}
	path := fmt.Sprintf("/rooms/%s/data", url.PathEscape(roomName))
	return c.do(ctx, region, http.MethodPost, path, roomName, body, nil)
}

func (c *Client) endpoint(region model.Region, path string) (string, error) {
	base, ok := c.regionURLs[region]
	if !ok || base == "" {
		return "", fmt.Errorf("no endpoint configured for region %s", region)
	}
	return base + path, nil
}

func (c *Client) do(ctx context.Context, region model.Region, method, path, roomName string, body any, out any) error {
	endpoint, err := c.endpoint(region, path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	token, err := c.minter.MintServer(roomName)
	if err != nil {
		return fmt.Errorf("mint server token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("region", string(region)).
			Str("method", method).
			Str("path", path).
			Dur("elapsed", elapsed).
			Msg("transport call error")
		return fmt.Errorf("transport %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Str("region", string(region)).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Msg("transport call failed")
		return fmt.Errorf("transport %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
