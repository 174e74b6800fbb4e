package value

// TradeCurrency — валюта, за которую торгуется BTC (фиат или альткоин).
type TradeCurrency struct {
	Code string       `json:"code"`
	Name string       `json:"name"`
	Kind CurrencyKind `json:"kind"`
}

type CurrencyKind string

const (
	CurrencyKindFiat   CurrencyKind = "FIAT"
	CurrencyKindCrypto CurrencyKind = "CRYPTO"
)

func (c TradeCurrency) IsFiat() bool {
	return c.Kind == CurrencyKindFiat
}

func (c TradeCurrency) IsZero() bool {
	return c.Code == ""
}
