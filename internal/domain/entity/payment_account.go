package entity

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"p2p_market/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// PaymentAccount — сохранённый платёжный аккаунт пользователя.
type PaymentAccount struct {
	ID              string `json:"id" db:"id"`
	OwnerID         string `json:"owner_id" db:"owner_id"`
	PaymentMethodID string `json:"payment_method_id" db:"payment_method_id"`
	AccountName     string `json:"account_name" db:"account_name"`

	// SingleTradeCurrency задан у методов с одной фиксированной валютой,
	// иначе валюта выбирается из TradeCurrencies.
	SingleTradeCurrency   *value.TradeCurrency  `json:"single_trade_currency,omitempty"`
	SelectedTradeCurrency *value.TradeCurrency  `json:"selected_trade_currency,omitempty"`
	TradeCurrencies       []value.TradeCurrency `json:"trade_currencies,omitempty"`

	ExtraFields map[string]string `json:"extra_fields,omitempty"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// Clone делает глубокую копию через сериализацию, чтобы правки в сессии
// редактирования не трогали сохранённый аккаунт.
func (a *PaymentAccount) Clone() (*PaymentAccount, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	var clone PaymentAccount
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return &clone, nil
}

// SetTradeCurrency назначает валюту: фиксированную, если метод одновалютный,
// иначе выбранную.
func (a *PaymentAccount) SetTradeCurrency(currency value.TradeCurrency) {
	if a.SingleTradeCurrency != nil {
		a.SingleTradeCurrency = &currency
		return
	}

	a.SelectedTradeCurrency = &currency
}

func (a *PaymentAccount) TradeCurrency() *value.TradeCurrency {
	if a.SingleTradeCurrency != nil {
		return a.SingleTradeCurrency
	}

	return a.SelectedTradeCurrency
}
