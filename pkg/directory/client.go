// Package directory is the HTTP client for the hotspot directory service:
// the network-wide minimum firmware, onboarding records and registered
// owners.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

// DefaultTimeout bounds one directory request.
const DefaultTimeout = 15 * time.Second

// Client implements provisioning.DirectoryClient over the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ provisioning.DirectoryClient = (*Client)(nil)

// NewClient creates a client for baseURL. A nil httpClient gets
// DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("directory base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(err, "parse directory base url")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}, nil
}

// FirmwareResponse is the body of GET /v2/firmware.
type FirmwareResponse struct {
	Version string `json:"version"`
}

// OnboardingResponse is the body of GET /v2/hotspots/{address}.
type OnboardingResponse struct {
	Maker struct {
		Address string `json:"address"`
	} `json:"maker"`
	Payer string `json:"payer,omitempty"`
}

// OwnerResponse is the body of GET /v2/hotspots/{address}/owner.
type OwnerResponse struct {
	Owner string `json:"owner"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// GetMinimumFirmware implements provisioning.DirectoryClient.
func (c *Client) GetMinimumFirmware(ctx context.Context) (string, bool, error) {
	var resp FirmwareResponse
	found, err := c.get(ctx, "/v2/firmware", nil, &resp)
	if err != nil || !found || resp.Version == "" {
		return "", false, err
	}
	return resp.Version, true, nil
}

// GetOnboardingRecord implements provisioning.DirectoryClient.
func (c *Client) GetOnboardingRecord(ctx context.Context, address string) (*hotspot.OnboardingRecord, error) {
	var resp OnboardingResponse
	found, err := c.get(ctx, "/v2/hotspots/"+url.PathEscape(address), nil, &resp)
	if err != nil || !found {
		return nil, err
	}
	return &hotspot.OnboardingRecord{
		MakerAddress: resp.Maker.Address,
		PayerAddress: resp.Payer,
	}, nil
}

// GetDeviceOwnershipDetails implements provisioning.DirectoryClient.
func (c *Client) GetDeviceOwnershipDetails(ctx context.Context, address, deviceType string) (*hotspot.OwnershipDetails, error) {
	q := url.Values{}
	if deviceType != "" {
		q.Set("type", deviceType)
	}
	var resp OwnerResponse
	found, err := c.get(ctx, "/v2/hotspots/"+url.PathEscape(address)+"/owner", q, &resp)
	if err != nil || !found || resp.Owner == "" {
		return nil, err
	}
	return &hotspot.OwnershipDetails{Owner: resp.Owner}, nil
}

// get fetches path into out. It reports false for 404 and wraps every
// other failure in provisioning.ErrDirectoryUnavailable.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	c.logger.Debug().Str("url", endpoint).Msg("directory request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, unavailable(errors.Wrap(err, "build directory request"))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, unavailable(errors.Wrapf(err, "call directory %s", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return false, unavailable(errorFromResponse(resp))
	}

	env := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, unavailable(errors.Wrapf(err, "decode directory %s response", path))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, unavailable(errors.Wrapf(err, "decode directory %s data", path))
	}
	return true, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", provisioning.ErrDirectoryUnavailable, err)
}

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return errors.Errorf("directory request %s %s failed: status=%d body=%s",
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
}
