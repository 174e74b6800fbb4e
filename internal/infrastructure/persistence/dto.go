package persistence

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"p2p_market/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// openOfferSchema — строка таблицы open_offers. Ключевые поля вынесены в
// колонки для выборок, полный payload лежит в JSONB.
type openOfferSchema struct {
	ID           string          `db:"id"`
	FeeTxID      string          `db:"fee_tx_id"`
	CurrencyCode string          `db:"currency_code"`
	Direction    string          `db:"direction"`
	State        string          `db:"state"`
	TriggerPrice decimal.Decimal `db:"trigger_price"`
	Payload      []byte          `db:"payload"`
	OfferState   string          `db:"offer_state"`
	CreatedAt    time.Time       `db:"created_at"`
}

func fromOpenOffer(offer *entity.OpenOffer) (*openOfferSchema, error) {
	payloadBytes, err := json.Marshal(offer.Offer.Payload)
	if err != nil {
		return nil, err
	}

	return &openOfferSchema{
		ID:           offer.ID(),
		FeeTxID:      offer.Offer.Payload.OfferFeeTxID,
		CurrencyCode: offer.Offer.CurrencyCode(),
		Direction:    string(offer.Offer.Direction()),
		State:        string(offer.State),
		TriggerPrice: offer.TriggerPrice,
		Payload:      payloadBytes,
		OfferState:   string(offer.Offer.State),
		CreatedAt:    offer.CreatedAt,
	}, nil
}

func (s *openOfferSchema) toDomain() (*entity.OpenOffer, error) {
	var payload entity.OfferPayload
	if err := json.Unmarshal(s.Payload, &payload); err != nil {
		return nil, err
	}

	offer := entity.NewOffer(payload)
	offer.State = entity.OfferState(s.OfferState)

	return &entity.OpenOffer{
		Offer:        offer,
		State:        entity.OpenOfferState(s.State),
		TriggerPrice: s.TriggerPrice,
		CreatedAt:    s.CreatedAt,
	}, nil
}

// paymentAccountSchema — строка таблицы payment_accounts. Валюты и
// extra-поля лежат в JSONB целиком.
type paymentAccountSchema struct {
	ID              string    `db:"id"`
	OwnerID         string    `db:"owner_id"`
	PaymentMethodID string    `db:"payment_method_id"`
	AccountName     string    `db:"account_name"`
	Body            []byte    `db:"body"`
	CreatedAt       time.Time `db:"created_at"`
}

func fromPaymentAccount(account *entity.PaymentAccount) (*paymentAccountSchema, error) {
	body, err := json.Marshal(account)
	if err != nil {
		return nil, err
	}

	return &paymentAccountSchema{
		ID:              account.ID,
		OwnerID:         account.OwnerID,
		PaymentMethodID: account.PaymentMethodID,
		AccountName:     account.AccountName,
		Body:            body,
		CreatedAt:       account.CreatedAt,
	}, nil
}

func (s *paymentAccountSchema) toDomain() (*entity.PaymentAccount, error) {
	var account entity.PaymentAccount
	if err := json.Unmarshal(s.Body, &account); err != nil {
		return nil, err
	}

	account.ID = s.ID
	account.OwnerID = s.OwnerID
	account.CreatedAt = s.CreatedAt

	return &account, nil
}
