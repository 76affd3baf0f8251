package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asleulv/vervekart/internal/repository"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// AddressRegistryClient talks to the external address registry that knows
// every residential unit. The backend proxies viewport lookups through it so
// map clients only ever talk to one origin.
type AddressRegistryClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// addressesResponse is the registry's answer to a bounds query.
type addressesResponse struct {
	Addresses []json.RawMessage `json:"addresses"`
}

func NewAddressRegistryClient(baseURL string, logger *zap.Logger) *AddressRegistryClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &AddressRegistryClient{
		httpClient: client,
		logger:     logger,
	}
}

// AddressesInBounds fetches every address unit inside the viewport. Address
// payloads are passed through untouched; the registry owns their shape.
func (c *AddressRegistryClient) AddressesInBounds(ctx context.Context, b repository.Bounds) ([]json.RawMessage, error) {
	var response addressesResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(b).
		SetResult(&response).
		Post("/api/addresses/bounds")
	if err != nil {
		c.logger.Error("Address registry call failed", zap.Error(err))
		return nil, fmt.Errorf("address registry request: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Address registry returned error",
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fmt.Errorf("address registry returned status %d", resp.StatusCode())
	}

	c.logger.Debug("Fetched addresses in bounds",
		zap.Int("count", len(response.Addresses)),
	)
	return response.Addresses, nil
}
