package scannerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"scanner_go/internal/domain"
	"scanner_go/internal/infra"
)

// Client is the REST scanner API client (snapshot fetcher boundary).
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new scanner API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "scanner_client"),
	}
}

// FetchPage fetches one page of scanner results for a filter. The filter is
// serialized as query parameters, array-valued fields repeated.
func (c *Client) FetchPage(ctx context.Context, filter domain.ScannerFilter, page int) ([]domain.TokenData, int, error) {
	reqURL := c.baseURL + "/scanner"
	if q := filter.QueryValues(page).Encode(); q != "" {
		reqURL += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, domain.NewNetworkError("fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, 0, fmt.Errorf("%w: status=%d", domain.ErrFetchFailed, resp.StatusCode)
	}

	var apiResp ScannerResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, 0, fmt.Errorf("failed to parse scanner response: %w", err)
	}

	tokens := make([]domain.TokenData, 0, len(apiResp.Pairs))
	for i := range apiResp.Pairs {
		tokens = append(tokens, apiResp.Pairs[i].TokenData())
	}

	c.logger.Debug("Fetched scanner page",
		slog.Int("page", page),
		slog.Int("tokens", len(tokens)),
		slog.Int("total_rows", apiResp.TotalRows))

	return tokens, apiResp.TotalRows, nil
}
