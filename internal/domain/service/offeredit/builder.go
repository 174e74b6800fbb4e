package offeredit

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
)

// NodeIdentity — сетевая идентичность мейкера, которой штампуются офферы.
type NodeIdentity struct {
	NodeAddress string
	PubKeyRing  string

	ArbitratorAddresses []string
	MediatorAddresses   []string

	VersionNr       string
	ProtocolVersion int
}

// FeePolicy — правила комиссий и лимитов. Внутренности тривиальны и
// сознательно не выносятся в отдельный сервис.
type FeePolicy struct {
	TxFee            int64
	MakerFeePercent  float64
	MinMakerFee      int64
	MaxTradeLimit    int64
	MaxTradePeriod   time.Duration
}

func (p FeePolicy) MakerFee(amount int64) int64 {
	fee := int64(float64(amount) * p.MakerFeePercent)
	if fee < p.MinMakerFee {
		return p.MinMakerFee
	}

	return fee
}

// Builder — общая процедура конструирования оффера из Draft.
type Builder struct {
	identity NodeIdentity
	fees     FeePolicy
	deposits DepositPolicy
}

func NewBuilder(identity NodeIdentity, fees FeePolicy, deposits DepositPolicy) *Builder {
	return &Builder{
		identity: identity,
		fees:     fees,
		deposits: deposits,
	}
}

// Build собирает новый иммутабельный оффер: свежий ID, свежая заглушка
// fee-транзакции, депозиты из процента. Валюта обязана быть резолвлена —
// иначе типизированный отказ, а не NPE с разбором текста.
func (b *Builder) Build(_ context.Context, draft Draft) (*entity.Offer, error) {
	if draft.TradeCurrency == nil {
		if draft.TradeCurrencyCode != "" {
			return nil, domain.NewError(errcodes.UnsupportedCurrency,
				"trade currency is not resolved, the asset may have been removed")
		}

		return nil, domain.NewError(errcodes.EditInitFailed, "trade currency is not set")
	}

	if draft.Direction == "" {
		return nil, domain.NewError(errcodes.EditInitFailed, "direction is not set")
	}

	if draft.Amount <= 0 {
		return nil, domain.NewError(errcodes.InvalidOfferAmount, "amount must be positive")
	}

	if draft.MinAmount > draft.Amount {
		return nil, domain.NewError(errcodes.InvalidOfferAmount, "min amount must not exceed amount")
	}

	if !draft.UseMarketBasedPrice && draft.Price.IsZero() {
		return nil, domain.NewError(errcodes.InvalidOfferPrice, "fixed price is not set")
	}

	baseCode, counterCode := "BTC", draft.TradeCurrency.Code
	if !draft.TradeCurrency.IsFiat() {
		baseCode, counterCode = draft.TradeCurrency.Code, "BTC"
	}

	buyerDeposit := int64(float64(draft.Amount) * draft.BuyerSecurityDepositPercent)
	if min := b.deposits.MinBuyerSecurityDeposit(); buyerDeposit < min {
		buyerDeposit = min
	}

	var paymentMethodID, paymentAccountID string
	if draft.PaymentAccount != nil {
		paymentMethodID = draft.PaymentAccount.PaymentMethodID
		paymentAccountID = draft.PaymentAccount.ID
	}

	price := draft.Price
	if draft.UseMarketBasedPrice {
		price = decimal.Zero
	}

	payload := entity.OfferPayload{
		ID:               xid.New().String(),
		Date:             time.Now().UTC(),
		OwnerNodeAddress: b.identity.NodeAddress,
		PubKeyRing:       b.identity.PubKeyRing,
		Direction:        draft.Direction,

		Price:               price,
		MarketPriceMargin:   draft.MarketPriceMargin,
		UseMarketBasedPrice: draft.UseMarketBasedPrice,

		Amount:    draft.Amount,
		MinAmount: draft.MinAmount,

		BaseCurrencyCode:    baseCode,
		CounterCurrencyCode: counterCode,

		ArbitratorNodeAddresses: b.identity.ArbitratorAddresses,
		MediatorNodeAddresses:   b.identity.MediatorAddresses,

		PaymentMethodID:       paymentMethodID,
		MakerPaymentAccountID: paymentAccountID,

		// Заглушка: у клона её перепишет fee-транзакция источника, у
		// нового оффера — реальная транзакция при оплате листинга.
		OfferFeeTxID: xid.New().String(),

		VersionNr:       b.identity.VersionNr,
		ProtocolVersion: b.identity.ProtocolVersion,

		TxFee:          b.fees.TxFee,
		MakerFee:       b.fees.MakerFee(draft.Amount),
		MaxTradeLimit:  b.fees.MaxTradeLimit,
		MaxTradePeriod: b.fees.MaxTradePeriod,

		BuyerSecurityDeposit:  buyerDeposit,
		SellerSecurityDeposit: buyerDeposit,
	}

	return entity.NewOffer(payload), nil
}
