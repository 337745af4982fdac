package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"RouletteSync/internal/apperr"
	"RouletteSync/internal/config"
	"RouletteSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client fetches the raw roulette history batch from the third-party API.
// It does not retry; the scheduler owns retry-on-next-trigger.
type Client struct {
	cfg    *config.UpstreamConfig
	http   *http.Client
	logger *logrus.Logger
}

func NewClient(cfg *config.UpstreamConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   httpclient.New(cfg, logger),
		logger: logger,
	}
}

// FetchHistory performs the GET and returns the raw body. Any non-200 status
// is a FetchError; the body is not inspected in that case.
func (c *Client) FetchHistory(ctx context.Context) ([]byte, error) {
	url := c.cfg.BaseURL + c.cfg.HistoryPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch roulette history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read history response: %w", err)
	}
	return body, nil
}
