package offeredit

import (
	"context"
	"fmt"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/value"
	"p2p_market/pkg/errcodes"
)

// CloneSession — сессия "клонировать и заменить": новый оффер с
// отредактированными условиями, наследующий подтверждение оплаты листинга
// от исходного.
type CloneSession struct {
	edit *EditSession
	sctx SessionContext

	sourceOpenOffer *entity.OpenOffer
}

func NewCloneSession(sctx SessionContext) *CloneSession {
	return &CloneSession{
		edit: NewEditSession(sctx),
		sctx: sctx,
	}
}

func (c *CloneSession) Edit() *EditSession {
	return c.edit
}

func (c *CloneSession) Reset() {
	c.edit.Reset()
}

// Init отличает недоступную для редактирования валюту от прочих отказов:
// если код валюты задан, но реестр его больше не знает — это отдельная,
// понятная пользователю ошибка.
func (c *CloneSession) Init(direction entity.OfferDirection, tradeCurrency *value.TradeCurrency) (bool, error) {
	if tradeCurrency == nil && c.edit.tradeCurrencyCode != "" {
		if _, ok := c.sctx.Currencies.Resolve(c.edit.tradeCurrencyCode); !ok {
			return false, domain.NewError(errcodes.UnsupportedCurrency,
				"offers of removed assets cannot be edited, you can only cancel it")
		}
	}

	return c.edit.Init(direction, tradeCurrency)
}

// ApplyOpenOffer наполняет staging-состояние из опубликованного оффера.
// Ошибок не возвращает: нерезолвящаяся валюта или пропавший платёжный
// аккаунт деградируют до частично заполненной сессии.
func (c *CloneSession) ApplyOpenOffer(ctx context.Context, openOffer *entity.OpenOffer) {
	c.sourceOpenOffer = openOffer

	payload := openOffer.Offer.Payload
	c.edit.SetDirection(payload.Direction)
	c.edit.SetTradeCurrencyCode(payload.CurrencyCode())

	tradeCurrency, currencyOK := c.sctx.Currencies.Resolve(payload.CurrencyCode())
	if currencyOK {
		c.edit.SetTradeCurrency(&tradeCurrency)
	}

	c.applyPaymentAccount(ctx, payload, tradeCurrency, currencyOK)
	c.edit.SetBuyerSecurityDepositPercent(c.recoverDepositPercent(payload))

	// Сумма не должна молча пересчитываться из других полей во время
	// редактирования.
	c.edit.DisableAmountUpdate()
}

func (c *CloneSession) applyPaymentAccount(
	ctx context.Context,
	payload entity.OfferPayload,
	tradeCurrency value.TradeCurrency,
	currencyOK bool,
) {
	account, err := c.sctx.Accounts.PaymentAccountByID(ctx, payload.MakerPaymentAccountID)
	if err != nil || account == nil {
		logger(ctx).Warn("maker payment account not found, session degraded",
			"payment_account_id", payload.MakerPaymentAccountID)
		return
	}

	if !currencyOK {
		return
	}

	// Глубокая копия: правки в сессии не должны трогать сохранённый аккаунт.
	clone, err := account.Clone()
	if err != nil {
		logger(ctx).Error("payment account clone failed", "error", err)
		return
	}

	clone.SetTradeCurrency(tradeCurrency)
	c.edit.SetPaymentAccount(clone)
}

// recoverDepositPercent восстанавливает исходный процент депозита. Если
// депозит при создании оффера упёрся в минимальную абсолютную сумму,
// процент из него не восстановить — берём дефолтный.
func (c *CloneSession) recoverDepositPercent(payload entity.OfferPayload) float64 {
	if payload.Amount == 0 {
		return c.sctx.Deposits.DefaultBuyerSecurityDepositPercent()
	}

	percent := float64(payload.BuyerSecurityDeposit) / float64(payload.Amount)

	if percent > c.sctx.Deposits.MaxBuyerSecurityDepositPercent() &&
		payload.BuyerSecurityDeposit == c.sctx.Deposits.MinBuyerSecurityDeposit() {
		return c.sctx.Deposits.DefaultBuyerSecurityDepositPercent()
	}

	return percent
}

// PopulateFields копирует редактируемые поля источника в staging.
// MinAmount обязан присваиваться раньше Amount, иначе Amount выведет его сам.
func (c *CloneSession) PopulateFields() {
	payload := c.sourceOpenOffer.Offer.Payload

	c.edit.SetMinAmount(payload.MinAmount)
	c.edit.SetAmount(payload.Amount)
	c.edit.SetPrice(payload.Price)
	c.edit.SetUseMarketBasedPrice(payload.UseMarketBasedPrice)
	c.edit.SetTriggerPrice(c.sourceOpenOffer.TriggerPrice)

	if payload.UseMarketBasedPrice {
		c.edit.SetMarketPriceMargin(payload.MarketPriceMargin)
	}
}

// BuildClonedOffer строит новый оффер: все поля — из отредактированного
// промежуточного оффера, кроме OfferFeeTxID, который всегда берётся из
// исходного. Чистая функция, повторный вызов строит новую запись.
func (c *CloneSession) BuildClonedOffer(ctx context.Context) (*entity.Offer, error) {
	sourcePayload := c.sourceOpenOffer.Offer.Payload

	editedOffer, err := c.edit.BuildOffer(ctx)
	if err != nil {
		return nil, fmt.Errorf("edit.BuildOffer: %w", err)
	}

	clonedPayload := editedOffer.Payload
	clonedPayload.OfferFeeTxID = sourcePayload.OfferFeeTxID

	clonedOffer := entity.NewOffer(clonedPayload)
	clonedOffer.SetPriceFeed(c.sctx.PriceFeed)
	// Комиссия унаследована, платить заново не нужно.
	clonedOffer.State = entity.OfferStateFeePaid

	return clonedOffer, nil
}

// CannotActivate — true, если клон сейчас нельзя активировать. Это не
// ошибка, а нормальный исход, который вызывающий обязан проверить.
func (c *CloneSession) CannotActivate(ctx context.Context) (bool, error) {
	clonedOffer, err := c.BuildClonedOffer(ctx)
	if err != nil {
		return false, fmt.Errorf("BuildClonedOffer: %w", err)
	}

	blocked, err := c.sctx.OfferBook.CannotActivateOffer(ctx, clonedOffer)
	if err != nil {
		return false, fmt.Errorf("offerBook.CannotActivateOffer: %w", err)
	}

	return blocked, nil
}

// Submit строит клон и отдаёт его книге офферов. Не блокирует: исход
// придёт ровно в один из колбэков. Возвращает построенный клон, чтобы
// вызывающий знал его идентификатор.
func (c *CloneSession) Submit(ctx context.Context, onPlaced func(), onError func(string)) (*entity.Offer, error) {
	clonedOffer, err := c.BuildClonedOffer(ctx)
	if err != nil {
		return nil, fmt.Errorf("BuildClonedOffer: %w", err)
	}

	c.sctx.OfferBook.PlaceOffer(ctx, PlaceRequest{
		Offer:                clonedOffer,
		BuyerSecurityDeposit: clonedOffer.Payload.BuyerSecurityDeposit,
		IsNewOffer:           false,
		AllowDust:            true,
		TriggerPrice:         c.sourceOpenOffer.TriggerPrice,
		OnPlaced:             onPlaced,
		OnError:              onError,
	})

	return clonedOffer, nil
}
