package offeredit

import (
	"context"

	"github.com/shopspring/decimal"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/value"
	"p2p_market/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// CurrencyResolver отдаёт валюту по коду, если она ещё поддерживается.
type CurrencyResolver interface {
	Resolve(code string) (value.TradeCurrency, bool)
}

// AccountRegistry — read-only доступ к платёжным аккаунтам пользователя.
type AccountRegistry interface {
	PaymentAccountByID(ctx context.Context, id string) (*entity.PaymentAccount, error)
	PaymentAccounts(ctx context.Context, ownerID string) ([]*entity.PaymentAccount, error)
}

// DepositPolicy — границы страхового депозита покупателя.
type DepositPolicy interface {
	MaxBuyerSecurityDepositPercent() float64
	MinBuyerSecurityDeposit() int64
	DefaultBuyerSecurityDepositPercent() float64
}

// OfferBuilder — общая процедура конструирования оффера из staging-состояния.
// Детали (комиссии, лимиты, идентичность ноды) скрыты за интерфейсом.
type OfferBuilder interface {
	Build(ctx context.Context, draft Draft) (*entity.Offer, error)
}

// PlaceRequest — параметры асинхронной публикации оффера.
type PlaceRequest struct {
	Offer *entity.Offer

	// BuyerSecurityDeposit — абсолютная сумма, не процент.
	BuyerSecurityDeposit int64
	IsNewOffer           bool
	AllowDust            bool
	TriggerPrice         decimal.Decimal

	// Ровно один из колбэков будет вызван, не более одного раза, в
	// горутине книги офферов.
	OnPlaced func()
	OnError  func(errorMessage string)
}

// OfferRegistry — книга офферов: проверка активации и публикация.
type OfferRegistry interface {
	CannotActivateOffer(ctx context.Context, offer *entity.Offer) (bool, error)
	PlaceOffer(ctx context.Context, req PlaceRequest)
}

// SessionContext собирает коллабораторов сессии один раз и передаётся по
// значению: без скрытой пошаговой инъекции.
type SessionContext struct {
	Currencies CurrencyResolver
	Accounts   AccountRegistry
	Deposits   DepositPolicy
	Builder    OfferBuilder
	OfferBook  OfferRegistry
	PriceFeed  entity.PriceFeed
}
