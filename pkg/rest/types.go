// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// Offer Опубликованный оффер
type Offer struct {
	ID                    string  `json:"id"`
	Date                  string  `json:"date"`
	Direction             string  `json:"direction"`
	Price                 string  `json:"price"`
	UseMarketBasedPrice   bool    `json:"useMarketBasedPrice"`
	MarketPriceMargin     float64 `json:"marketPriceMargin"`
	Amount                int64   `json:"amount"`
	MinAmount             int64   `json:"minAmount"`
	BaseCurrencyCode      string  `json:"baseCurrencyCode"`
	CounterCurrencyCode   string  `json:"counterCurrencyCode"`
	PaymentMethodID       string  `json:"paymentMethodId"`
	PaymentAccountID      string  `json:"paymentAccountId"`
	OfferFeeTxID          string  `json:"offerFeeTxId"`
	BuyerSecurityDeposit  int64   `json:"buyerSecurityDeposit"`
	SellerSecurityDeposit int64   `json:"sellerSecurityDeposit"`
	State                 string  `json:"state"`
}

// OpenOffer Оффер в книге открытых офферов мейкера
type OpenOffer struct {
	Offer        Offer  `json:"offer"`
	State        string `json:"state"`
	TriggerPrice string `json:"triggerPrice,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

// OpenOffersResponse Страница открытых офферов
type OpenOffersResponse struct {
	Items []OpenOffer `json:"items"`
}

// CloneOfferRequest Правки поверх клонируемого оффера; отсутствующее
// поле означает "как в источнике"
type CloneOfferRequest struct {
	Price               *string  `json:"price,omitempty"`
	UseMarketBasedPrice *bool    `json:"useMarketBasedPrice,omitempty"`
	MarketPriceMargin   *float64 `json:"marketPriceMargin,omitempty"`
	Amount              *int64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	MinAmount           *int64   `json:"minAmount,omitempty" validate:"omitempty,gt=0"`
	TriggerPrice        *string  `json:"triggerPrice,omitempty"`
}

// CloneOfferResponse Принятый к размещению клон
type CloneOfferResponse struct {
	Offer Offer `json:"offer"`

	// ActivationBlocked Клон размещён деактивированным из-за конфликта
	ActivationBlocked bool `json:"activationBlocked"`
}

// CloneEligibilityResponse Ответ проверки активируемости клона
type CloneEligibilityResponse struct {
	ActivationBlocked bool `json:"activationBlocked"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
