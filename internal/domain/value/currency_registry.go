package value

// Реестр поддерживаемых валют. Код, выпиленный из списка (например
// делистнутый альткоин), перестаёт резолвиться — существующие офферы с ним
// можно только снять, но не отредактировать.
var supportedCurrencies = map[string]TradeCurrency{ //nolint:gochecknoglobals
	"USD": {Code: "USD", Name: "US Dollar", Kind: CurrencyKindFiat},
	"EUR": {Code: "EUR", Name: "Euro", Kind: CurrencyKindFiat},
	"GBP": {Code: "GBP", Name: "British Pound", Kind: CurrencyKindFiat},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Kind: CurrencyKindFiat},
	"BRL": {Code: "BRL", Name: "Brazilian Real", Kind: CurrencyKindFiat},
	"XMR": {Code: "XMR", Name: "Monero", Kind: CurrencyKindCrypto},
	"LTC": {Code: "LTC", Name: "Litecoin", Kind: CurrencyKindCrypto},
	"ETH": {Code: "ETH", Name: "Ether", Kind: CurrencyKindCrypto},
}

type CurrencyRegistry struct {
	currencies map[string]TradeCurrency
}

func NewCurrencyRegistry() CurrencyRegistry {
	return CurrencyRegistry{currencies: supportedCurrencies}
}

// NewCurrencyRegistryOf используется в тестах для фиксированного набора валют.
func NewCurrencyRegistryOf(currencies ...TradeCurrency) CurrencyRegistry {
	m := make(map[string]TradeCurrency, len(currencies))
	for _, c := range currencies {
		m[c.Code] = c
	}

	return CurrencyRegistry{currencies: m}
}

func (r CurrencyRegistry) Resolve(code string) (TradeCurrency, bool) {
	c, ok := r.currencies[code]
	return c, ok
}
