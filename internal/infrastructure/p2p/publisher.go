package p2p

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/httpx"
	"p2p_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	publishTimeout = 15 * time.Second
	logFieldMaxLen = 4096
)

// relayAuthenticator подставляет статический токен релея. Ре-аутентификация
// не нужна: токен выдаётся оператору ноды один раз.
type relayAuthenticator struct {
	token string
}

func (a relayAuthenticator) Authenticate(context.Context) error {
	return nil
}

func (a relayAuthenticator) BearerToken() string {
	return a.token
}

// Publisher раздаёт payload оффера через релей-ноду. Механика dandelion и
// прямого флуда живёт на стороне релея.
type Publisher struct {
	relayURL   string
	httpClient *http.Client
}

func NewPublisher(relayURL, relayToken string) *Publisher {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	)

	if relayToken != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, relayAuthenticator{token: relayToken})
	}

	return &Publisher{
		relayURL: relayURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   publishTimeout,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, offer *entity.Offer) error {
	body, err := json.Marshal(offer.Payload)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	url := p.relayURL + "/v1/offers"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("relay status %d", resp.StatusCode)
	}

	return nil
}
