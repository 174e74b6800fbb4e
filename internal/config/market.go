package config

import "time"

// Market — ограничения рынка: границы депозита, комиссии, лимиты.
type Market struct {
	// Проценты — доли единицы: 0.15 == 15%.
	MaxBuyerSecurityDepositAsPercent     float64 `env:"MARKET_MAX_BUYER_DEPOSIT_PERCENT" envDefault:"0.2"`
	DefaultBuyerSecurityDepositAsPercent float64 `env:"MARKET_DEFAULT_BUYER_DEPOSIT_PERCENT" envDefault:"0.15"`

	// Минимальный абсолютный депозит в сатоши (0.001 BTC).
	MinBuyerSecurityDepositSats int64 `env:"MARKET_MIN_BUYER_DEPOSIT_SATS" envDefault:"100000"`

	TxFeeSats       int64   `env:"MARKET_TX_FEE_SATS" envDefault:"1500"`
	MakerFeePercent float64 `env:"MARKET_MAKER_FEE_PERCENT" envDefault:"0.001"`
	MinMakerFeeSats int64   `env:"MARKET_MIN_MAKER_FEE_SATS" envDefault:"5000"`

	MaxTradeLimitSats int64         `env:"MARKET_MAX_TRADE_LIMIT_SATS" envDefault:"200000000"`
	MaxTradePeriod    time.Duration `env:"MARKET_MAX_TRADE_PERIOD" envDefault:"192h"`

	MaxOpenOffers     int           `env:"MARKET_MAX_OPEN_OFFERS" envDefault:"25"`
	RepublishInterval time.Duration `env:"MARKET_REPUBLISH_INTERVAL" envDefault:"10m"`
}

// Методы ниже реализуют offeredit.DepositPolicy.

func (m Market) MaxBuyerSecurityDepositPercent() float64 {
	return m.MaxBuyerSecurityDepositAsPercent
}

func (m Market) MinBuyerSecurityDeposit() int64 {
	return m.MinBuyerSecurityDepositSats
}

func (m Market) DefaultBuyerSecurityDepositPercent() float64 {
	return m.DefaultBuyerSecurityDepositAsPercent
}
