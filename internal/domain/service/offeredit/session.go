package offeredit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/value"
)

var satoshisPerBTC = decimal.New(1, 8) //nolint:gochecknoglobals

// Draft — снимок staging-состояния сессии, который читает билдер.
type Draft struct {
	Direction         entity.OfferDirection
	TradeCurrency     *value.TradeCurrency
	TradeCurrencyCode string

	UseMarketBasedPrice bool
	MarketPriceMargin   float64
	Price               decimal.Decimal
	TriggerPrice        decimal.Decimal

	Amount    int64
	MinAmount int64
	Volume    decimal.Decimal
	MinVolume decimal.Decimal

	BuyerSecurityDepositPercent float64
	PaymentAccount              *entity.PaymentAccount
}

// EditSession — мутабельное staging-состояние редактируемого оффера.
// Владеет им ровно одна сессия, никакой синхронизации не нужно.
type EditSession struct {
	direction         entity.OfferDirection
	tradeCurrency     *value.TradeCurrency
	tradeCurrencyCode string

	useMarketBasedPrice bool
	marketPriceMargin   float64
	price               decimal.Decimal
	triggerPrice        decimal.Decimal

	amount    int64
	minAmount int64
	volume    decimal.Decimal
	minVolume decimal.Decimal

	buyerSecurityDepositPercent float64

	paymentAccount  *entity.PaymentAccount
	paymentAccounts []*entity.PaymentAccount

	// allowAmountUpdate: пока true, объём может пересчитывать сумму.
	// Популяция из источника выключает его до конца сессии.
	allowAmountUpdate bool

	sctx SessionContext
}

func NewEditSession(sctx SessionContext) *EditSession {
	return &EditSession{
		sctx:              sctx,
		allowAmountUpdate: true,
	}
}

// Reset сбрасывает все поля в "не задано". Безопасен в любой момент,
// в том числе до первого использования.
func (s *EditSession) Reset() {
	s.direction = ""
	s.tradeCurrency = nil
	s.tradeCurrencyCode = ""
	s.useMarketBasedPrice = false
	s.marketPriceMargin = 0
	s.price = decimal.Zero
	s.triggerPrice = decimal.Zero
	s.amount = 0
	s.minAmount = 0
	s.volume = decimal.Zero
	s.minVolume = decimal.Zero
	s.buyerSecurityDepositPercent = 0
	s.paymentAccount = nil
	s.paymentAccounts = nil
	s.allowAmountUpdate = true
}

// Init — инициализация для новой (не клонируемой) сессии. Отсутствие
// обязательного аргумента — обычный отказ (false, nil), без деталей.
func (s *EditSession) Init(direction entity.OfferDirection, tradeCurrency *value.TradeCurrency) (bool, error) {
	if direction == "" || tradeCurrency == nil {
		return false, nil
	}

	s.direction = direction
	s.tradeCurrency = tradeCurrency
	s.tradeCurrencyCode = tradeCurrency.Code

	return true, nil
}

func (s *EditSession) SetDirection(direction entity.OfferDirection) {
	s.direction = direction
}

func (s *EditSession) SetTradeCurrency(currency *value.TradeCurrency) {
	s.tradeCurrency = currency
	if currency != nil {
		s.tradeCurrencyCode = currency.Code
	}
}

func (s *EditSession) SetTradeCurrencyCode(code string) {
	s.tradeCurrencyCode = code
}

// SetMinAmount должен вызываться раньше SetAmount: иначе SetAmount выведет
// минимальную сумму из полной.
func (s *EditSession) SetMinAmount(minAmount int64) {
	s.minAmount = minAmount
}

func (s *EditSession) SetAmount(amount int64) {
	s.amount = amount
	// Минимальная сумма не может превышать полную.
	if s.minAmount == 0 || s.minAmount > amount {
		s.minAmount = amount
	}
	s.recalcVolume()
}

func (s *EditSession) SetPrice(price decimal.Decimal) {
	s.price = price
	s.recalcVolume()
}

func (s *EditSession) SetVolume(volume decimal.Decimal) {
	s.volume = volume

	if s.allowAmountUpdate && !s.price.IsZero() && !volume.IsZero() {
		s.amount = volume.Div(s.price).Mul(satoshisPerBTC).IntPart()
	}
}

func (s *EditSession) SetUseMarketBasedPrice(use bool) {
	s.useMarketBasedPrice = use
}

func (s *EditSession) SetMarketPriceMargin(margin float64) {
	s.marketPriceMargin = margin
}

func (s *EditSession) SetTriggerPrice(price decimal.Decimal) {
	s.triggerPrice = price
}

func (s *EditSession) SetBuyerSecurityDepositPercent(percent float64) {
	s.buyerSecurityDepositPercent = percent
}

func (s *EditSession) SetPaymentAccount(account *entity.PaymentAccount) {
	s.paymentAccount = account
}

func (s *EditSession) DisableAmountUpdate() {
	s.allowAmountUpdate = false
}

func (s *EditSession) recalcVolume() {
	if s.price.IsZero() || s.amount == 0 {
		return
	}

	amountBTC := decimal.NewFromInt(s.amount).Div(satoshisPerBTC)
	s.volume = s.price.Mul(amountBTC)

	if s.minAmount != 0 {
		minAmountBTC := decimal.NewFromInt(s.minAmount).Div(satoshisPerBTC)
		s.minVolume = s.price.Mul(minAmountBTC)
	}
}

// Draft возвращает снимок текущего состояния.
func (s *EditSession) Draft() Draft {
	return Draft{
		Direction:                   s.direction,
		TradeCurrency:               s.tradeCurrency,
		TradeCurrencyCode:           s.tradeCurrencyCode,
		UseMarketBasedPrice:         s.useMarketBasedPrice,
		MarketPriceMargin:           s.marketPriceMargin,
		Price:                       s.price,
		TriggerPrice:                s.triggerPrice,
		Amount:                      s.amount,
		MinAmount:                   s.minAmount,
		Volume:                      s.volume,
		MinVolume:                   s.minVolume,
		BuyerSecurityDepositPercent: s.buyerSecurityDepositPercent,
		PaymentAccount:              s.paymentAccount,
	}
}

// BuildOffer прогоняет текущее состояние через общий билдер.
func (s *EditSession) BuildOffer(ctx context.Context) (*entity.Offer, error) {
	offer, err := s.sctx.Builder.Build(ctx, s.Draft())
	if err != nil {
		return nil, fmt.Errorf("builder.Build: %w", err)
	}

	return offer, nil
}
