package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain/value"
)

func TestCurrencyRegistryResolve(t *testing.T) {
	rq := require.New(t)

	registry := value.NewCurrencyRegistry()

	usd, ok := registry.Resolve("USD")
	rq.True(ok)
	rq.Equal("USD", usd.Code)
	rq.True(usd.IsFiat())

	xmr, ok := registry.Resolve("XMR")
	rq.True(ok)
	rq.False(xmr.IsFiat())

	delisted, ok := registry.Resolve("BSQ")
	rq.False(ok)
	rq.True(delisted.IsZero())
}

func TestCurrencyRegistryOf(t *testing.T) {
	rq := require.New(t)

	registry := value.NewCurrencyRegistryOf(
		value.TradeCurrency{Code: "USD", Name: "US Dollar", Kind: value.CurrencyKindFiat},
	)

	_, ok := registry.Resolve("USD")
	rq.True(ok)

	_, ok = registry.Resolve("EUR")
	rq.False(ok)
}
