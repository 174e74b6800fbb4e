package offeredit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/internal/domain/value"
)

func newEditSession() *offeredit.EditSession {
	return offeredit.NewEditSession(
		testSessionContext(&placeRecorder{}, stubAccounts{}),
	)
}

func TestEditSessionInit(t *testing.T) {
	rq := require.New(t)

	usd := value.TradeCurrency{Code: "USD", Name: "US Dollar", Kind: value.CurrencyKindFiat}

	// Отсутствие обязательного аргумента — обычный отказ, без ошибки.
	ok, err := newEditSession().Init("", &usd)
	rq.NoError(err)
	rq.False(ok)

	ok, err = newEditSession().Init(entity.DirectionSell, nil)
	rq.NoError(err)
	rq.False(ok)

	session := newEditSession()
	ok, err = session.Init(entity.DirectionSell, &usd)
	rq.NoError(err)
	rq.True(ok)
	rq.Equal("USD", session.Draft().TradeCurrencyCode)
}

func TestEditSessionAmountDerivesMinAmount(t *testing.T) {
	rq := require.New(t)

	session := newEditSession()
	session.SetAmount(1_000_000)

	rq.Equal(int64(1_000_000), session.Draft().MinAmount)

	// Заданный заранее минимум не перетирается.
	session = newEditSession()
	session.SetMinAmount(500_000)
	session.SetAmount(1_000_000)

	rq.Equal(int64(500_000), session.Draft().MinAmount)
}

func TestEditSessionAmountClampsMinAmount(t *testing.T) {
	rq := require.New(t)

	// Сумма ниже заданного минимума подтягивает минимум к себе:
	// оффер с minAmount > amount невозможно взять.
	session := newEditSession()
	session.SetMinAmount(500_000)
	session.SetAmount(300_000)

	rq.Equal(int64(300_000), session.Draft().Amount)
	rq.Equal(int64(300_000), session.Draft().MinAmount)
}

func TestEditSessionVolumeRecalc(t *testing.T) {
	rq := require.New(t)

	session := newEditSession()
	session.SetMinAmount(500_000)
	session.SetAmount(1_000_000) // 0.01 BTC
	session.SetPrice(decimal.NewFromInt(50_000))

	draft := session.Draft()
	rq.True(draft.Volume.Equal(decimal.NewFromInt(500)), "volume = %s", draft.Volume)
	rq.True(draft.MinVolume.Equal(decimal.NewFromInt(250)), "min volume = %s", draft.MinVolume)
}

func TestEditSessionVolumeDrivesAmount(t *testing.T) {
	rq := require.New(t)

	session := newEditSession()
	session.SetPrice(decimal.NewFromInt(50_000))
	session.SetVolume(decimal.NewFromInt(500))

	rq.Equal(int64(1_000_000), session.Draft().Amount)

	// После выключения обратного пересчёта объём сумму не трогает.
	session.DisableAmountUpdate()
	session.SetVolume(decimal.NewFromInt(1000))

	rq.Equal(int64(1_000_000), session.Draft().Amount)
}

func TestEditSessionResetRestoresAmountUpdate(t *testing.T) {
	rq := require.New(t)

	session := newEditSession()
	session.DisableAmountUpdate()
	session.Reset()

	session.SetPrice(decimal.NewFromInt(50_000))
	session.SetVolume(decimal.NewFromInt(500))

	rq.Equal(int64(1_000_000), session.Draft().Amount)
}
