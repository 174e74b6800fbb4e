package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferDirection string

const (
	DirectionBuy  OfferDirection = "BUY"
	DirectionSell OfferDirection = "SELL"
)

type OfferState string

const (
	OfferStateUnknown      OfferState = "UNKNOWN"
	OfferStateFeePaid      OfferState = "OFFER_FEE_PAID"
	OfferStateAvailable    OfferState = "AVAILABLE"
	OfferStateNotAvailable OfferState = "NOT_AVAILABLE"
	OfferStateRemoved      OfferState = "REMOVED"
)

// OfferPayload — опубликованная запись оффера. После конструирования не
// мутируется: редактирование всегда порождает новый payload.
type OfferPayload struct {
	ID               string         `json:"id"`
	Date             time.Time      `json:"date"`
	OwnerNodeAddress string         `json:"owner_node_address"`
	PubKeyRing       string         `json:"pub_key_ring"`
	Direction        OfferDirection `json:"direction"`

	// Price — фиксированная цена; ноль, если цена рыночная.
	Price               decimal.Decimal `json:"price"`
	MarketPriceMargin   float64         `json:"market_price_margin"`
	UseMarketBasedPrice bool            `json:"use_market_based_price"`

	// Amount в сатоши.
	Amount    int64 `json:"amount"`
	MinAmount int64 `json:"min_amount"`

	BaseCurrencyCode    string `json:"base_currency_code"`
	CounterCurrencyCode string `json:"counter_currency_code"`

	ArbitratorNodeAddresses []string `json:"arbitrator_node_addresses"`
	MediatorNodeAddresses   []string `json:"mediator_node_addresses"`

	PaymentMethodID       string `json:"payment_method_id"`
	MakerPaymentAccountID string `json:"maker_payment_account_id"`

	// OfferFeeTxID — подтверждение оплаты листинга. Клон наследует его от
	// исходного оффера и не платит комиссию повторно.
	OfferFeeTxID string `json:"offer_fee_tx_id"`

	CountryCode          string   `json:"country_code,omitempty"`
	AcceptedCountryCodes []string `json:"accepted_country_codes,omitempty"`
	BankID               string   `json:"bank_id,omitempty"`
	AcceptedBankIDs      []string `json:"accepted_bank_ids,omitempty"`

	VersionNr             string `json:"version_nr"`
	ProtocolVersion       int    `json:"protocol_version"`
	BlockHeightAtCreation int64  `json:"block_height_at_creation"`

	TxFee          int64         `json:"tx_fee"`
	MakerFee       int64         `json:"maker_fee"`
	MaxTradeLimit  int64         `json:"max_trade_limit"`
	MaxTradePeriod time.Duration `json:"max_trade_period"`

	BuyerSecurityDeposit  int64 `json:"buyer_security_deposit"`
	SellerSecurityDeposit int64 `json:"seller_security_deposit"`

	UseAutoClose            bool            `json:"use_auto_close"`
	UseReOpenAfterAutoClose bool            `json:"use_re_open_after_auto_close"`
	LowerClosePrice         decimal.Decimal `json:"lower_close_price"`
	UpperClosePrice         decimal.Decimal `json:"upper_close_price"`

	IsPrivateOffer  bool              `json:"is_private_offer"`
	HashOfChallenge string            `json:"hash_of_challenge,omitempty"`
	ExtraData       map[string]string `json:"extra_data,omitempty"`
}

// CurrencyCode возвращает код торгуемой валюты: не-BTC сторону пары.
func (p OfferPayload) CurrencyCode() string {
	if p.BaseCurrencyCode == "BTC" {
		return p.CounterCurrencyCode
	}

	return p.BaseCurrencyCode
}

// PriceFeed отдаёт рыночную цену для кода валюты.
type PriceFeed interface {
	MarketPrice(currencyCode string) (decimal.Decimal, error)
}

// Offer — payload плюс жизненный цикл и прикреплённый фид цен.
type Offer struct {
	Payload OfferPayload
	State   OfferState

	priceFeed PriceFeed
}

func NewOffer(payload OfferPayload) *Offer {
	return &Offer{
		Payload: payload,
		State:   OfferStateUnknown,
	}
}

func (o *Offer) ID() string {
	return o.Payload.ID
}

func (o *Offer) Direction() OfferDirection {
	return o.Payload.Direction
}

func (o *Offer) CurrencyCode() string {
	return o.Payload.CurrencyCode()
}

func (o *Offer) SetPriceFeed(feed PriceFeed) {
	o.priceFeed = feed
}

func (o *Offer) PriceFeed() PriceFeed {
	return o.priceFeed
}

// EffectivePrice — фиксированная цена, либо рыночная с учётом маржи.
func (o *Offer) EffectivePrice() (decimal.Decimal, error) {
	if !o.Payload.UseMarketBasedPrice {
		return o.Payload.Price, nil
	}

	marketPrice, err := o.priceFeed.MarketPrice(o.CurrencyCode())
	if err != nil {
		return decimal.Zero, err
	}

	factor := decimal.NewFromFloat(1 - o.Payload.MarketPriceMargin)
	if o.Direction() == DirectionBuy {
		factor = decimal.NewFromFloat(1 + o.Payload.MarketPriceMargin)
	}

	return marketPrice.Mul(factor), nil
}
