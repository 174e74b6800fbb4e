package config

import "time"

type PriceFeed struct {
	BaseURL string        `env:"PRICE_FEED_BASE_URL" envDefault:"http://localhost:8090"`
	TTL     time.Duration `env:"PRICE_FEED_TTL" envDefault:"30s"`
}
