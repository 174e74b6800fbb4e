package pricefeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"p2p_market/pkg/contextx"
	"p2p_market/pkg/httpx"
	"p2p_market/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const (
	defaultPriceTTL = 30 * time.Second
	cleanupInterval = 5 * time.Minute
	requestTimeout  = 10 * time.Second
	logFieldMaxLen  = 4096
)

// Client ходит за рыночными ценами к внешнему прайс-фиду и кэширует их.
// Реализует entity.PriceFeed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	prices     *cache.Cache
}

func NewClient(baseURL string, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = defaultPriceTTL
	}

	transport := httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
	)

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		prices: cache.New(ttl, cleanupInterval),
	}
}

type priceResponse struct {
	CurrencyCode string `json:"currency_code"`
	Price        string `json:"price"`
}

// MarketPrice возвращает цену BTC в валюте currencyCode.
func (c *Client) MarketPrice(currencyCode string) (decimal.Decimal, error) {
	if cached, found := c.prices.Get(currencyCode); found {
		return cached.(decimal.Decimal), nil //nolint:forcetypeassert
	}

	price, err := c.fetch(context.Background(), currencyCode)
	if err != nil {
		return decimal.Zero, err
	}

	c.prices.Set(currencyCode, price, cache.DefaultExpiration)

	return price, nil
}

func (c *Client) fetch(ctx context.Context, currencyCode string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/prices/%s", c.baseURL, currencyCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http.NewRequest: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("price feed status %d for %s", resp.StatusCode, currencyCode)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("json.Decode: %w", err)
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	logger(ctx).Debug("market price fetched",
		slog.String(logx.FieldCurrency, currencyCode), logx.Decimal("price", price))

	return price, nil
}
