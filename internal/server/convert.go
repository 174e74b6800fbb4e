package server

import (
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/rest"
)

func newRESTOffer(offer *entity.Offer) rest.Offer {
	payload := offer.Payload

	return rest.Offer{
		ID:                    payload.ID,
		Date:                  payload.Date.Format(time.RFC3339),
		Direction:             string(payload.Direction),
		Price:                 payload.Price.String(),
		UseMarketBasedPrice:   payload.UseMarketBasedPrice,
		MarketPriceMargin:     payload.MarketPriceMargin,
		Amount:                payload.Amount,
		MinAmount:             payload.MinAmount,
		BaseCurrencyCode:      payload.BaseCurrencyCode,
		CounterCurrencyCode:   payload.CounterCurrencyCode,
		PaymentMethodID:       payload.PaymentMethodID,
		PaymentAccountID:      payload.MakerPaymentAccountID,
		OfferFeeTxID:          payload.OfferFeeTxID,
		BuyerSecurityDeposit:  payload.BuyerSecurityDeposit,
		SellerSecurityDeposit: payload.SellerSecurityDeposit,
		State:                 string(offer.State),
	}
}

func newRESTOpenOffer(openOffer *entity.OpenOffer) rest.OpenOffer {
	result := rest.OpenOffer{
		Offer:     newRESTOffer(openOffer.Offer),
		State:     string(openOffer.State),
		CreatedAt: openOffer.CreatedAt.Format(time.RFC3339),
	}

	if !openOffer.TriggerPrice.IsZero() {
		result.TriggerPrice = openOffer.TriggerPrice.String()
	}

	return result
}

func newDomainEdits(request rest.CloneOfferRequest) (offeredit.Edits, error) {
	edits := offeredit.Edits{
		UseMarketBasedPrice: request.UseMarketBasedPrice,
		MarketPriceMargin:   request.MarketPriceMargin,
		Amount:              request.Amount,
		MinAmount:           request.MinAmount,
	}

	if request.Price != nil {
		price, err := decimal.NewFromString(*request.Price)
		if err != nil {
			return offeredit.Edits{}, invalidDecimal("price", err)
		}

		edits.Price = &price
	}

	if request.TriggerPrice != nil {
		triggerPrice, err := decimal.NewFromString(*request.TriggerPrice)
		if err != nil {
			return offeredit.Edits{}, invalidDecimal("triggerPrice", err)
		}

		edits.TriggerPrice = &triggerPrice
	}

	return edits, nil
}

func invalidDecimal(field string, err error) error {
	return failure.NewInvalidArgumentErrorFromError(
		fmt.Errorf("decimal.NewFromString(%s): %w", field, err),
		failure.WithCode(errcodes.InvalidOfferPrice),
	)
}
