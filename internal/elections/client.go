// Package elections fetches validation cycles from the elections service.
package elections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/model"
)

// ErrFetch is returned when the cycle list cannot be retrieved or decoded.
var ErrFetch = errors.New("could not perform elections request")

// maxErrorBody bounds how much of a failed response body is quoted in an error.
const maxErrorBody = 256

// Client queries the elections service over HTTP.
type Client struct {
	logger  zerolog.Logger
	http    *http.Client
	baseURL string
	limit   int
}

// NewClient returns a client for the elections API rooted at baseURL.
// A nil httpClient uses http.DefaultClient.
func NewClient(logger zerolog.Logger, httpClient *http.Client, baseURL string, limit int) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		logger:  logger.With().Str("component", "elections-client").Logger(),
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   limit,
	}
}

// CyclesURL returns the request URL for the most recent cycles with their rosters.
func (c *Client) CyclesURL() string {
	q := url.Values{}
	q.Set(model.ElectionsReturnParticipants, "true")
	q.Set("offset", "0")
	q.Set("limit", strconv.Itoa(c.limit))
	return fmt.Sprintf("%s/%s?%s", c.baseURL, model.ElectionsValidationCycles, q.Encode())
}

// ValidationCycles fetches the most recent validation cycles, most recent first.
//
// All errors wrap ErrFetch.
func (c *Client) ValidationCycles(ctx context.Context) ([]model.CycleRecord, error) {
	target := c.CyclesURL()
	c.logger.Debug().Str("url", target).Msg("fetching validation cycles list from elections server")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: unexpected status %s: %s", ErrFetch, resp.Status, strings.TrimSpace(string(body)))
	}

	var cycles []model.CycleRecord
	if err := json.NewDecoder(resp.Body).Decode(&cycles); err != nil {
		return nil, fmt.Errorf("%w: decode cycles: %w", ErrFetch, err)
	}

	c.logger.Debug().Int("cycles", len(cycles)).Msg("validation cycles received")
	return cycles, nil
}
