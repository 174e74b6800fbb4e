package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OpenOfferState string

const (
	OpenOfferStateAvailable   OpenOfferState = "AVAILABLE"
	OpenOfferStateReserved    OpenOfferState = "RESERVED"
	OpenOfferStateDeactivated OpenOfferState = "DEACTIVATED"
	OpenOfferStateClosed      OpenOfferState = "CLOSED"
)

// OpenOffer — обёртка над опубликованным оффером, пока он висит в книге.
// TriggerPrice живёт здесь, а не в payload: он не публикуется в сеть.
type OpenOffer struct {
	Offer        *Offer
	State        OpenOfferState
	TriggerPrice decimal.Decimal
	CreatedAt    time.Time
}

func NewOpenOffer(offer *Offer, triggerPrice decimal.Decimal) *OpenOffer {
	return &OpenOffer{
		Offer:        offer,
		State:        OpenOfferStateAvailable,
		TriggerPrice: triggerPrice,
		CreatedAt:    time.Now(),
	}
}

func (o *OpenOffer) ID() string {
	return o.Offer.ID()
}

func (o *OpenOffer) IsDeactivated() bool {
	return o.State == OpenOfferStateDeactivated
}
