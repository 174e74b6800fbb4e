package offeredit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/pkg/errcodes"
)

type stubOfferSource map[string]*entity.OpenOffer

func (s stubOfferSource) OpenOfferByID(_ context.Context, id string) (*entity.OpenOffer, error) {
	offer, ok := s[id]
	if !ok {
		return nil, domain.NewError(errcodes.OfferNotFound, "open offer not found")
	}

	return offer, nil
}

func (s stubOfferSource) OpenOffers(_ context.Context, _, _ int) ([]*entity.OpenOffer, error) {
	offers := make([]*entity.OpenOffer, 0, len(s))
	for _, offer := range s {
		offers = append(offers, offer)
	}

	return offers, nil
}

func newTestService(book *placeRecorder) *offeredit.Service {
	return offeredit.NewService(
		testSessionContext(book, stubAccounts{"acc-1": usdAccount()}),
		stubOfferSource{"source-1": sourceOpenOffer()},
	)
}

func TestServiceCloneOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	book := &placeRecorder{}
	service := newTestService(book)

	newPrice := decimal.NewFromInt(52_000)

	outcome, err := service.CloneOffer(ctx, "source-1", offeredit.Edits{Price: &newPrice})
	rq.NoError(err)
	rq.False(outcome.ActivationBlocked)
	rq.NotEqual("source-1", outcome.Offer.ID())
	rq.True(outcome.Offer.Payload.Price.Equal(newPrice))
	rq.Equal("fee-tx-1", outcome.Offer.Payload.OfferFeeTxID)

	rq.Len(book.requests, 1)
	rq.Equal(outcome.Offer.ID(), book.requests[0].Offer.ID())
}

func TestServiceCloneOfferBlockedStillPlaced(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	book := &placeRecorder{blocked: true}
	service := newTestService(book)

	outcome, err := service.CloneOffer(ctx, "source-1", offeredit.Edits{})
	rq.NoError(err)

	// Конфликт — это предупреждение, а не отказ: размещение всё равно уходит.
	rq.True(outcome.ActivationBlocked)
	rq.Len(book.requests, 1)
}

func TestServiceCloneEligibility(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	book := &placeRecorder{blocked: true}
	service := newTestService(book)

	blocked, err := service.CloneEligibility(ctx, "source-1", offeredit.Edits{})
	rq.NoError(err)
	rq.True(blocked)

	// Проверка ничего не размещает.
	rq.Empty(book.requests)
}

func TestServiceCloneUnknownOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	service := newTestService(&placeRecorder{})

	_, err := service.CloneOffer(ctx, "missing", offeredit.Edits{})
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.OfferNotFound))
}

func TestServiceAmountEditKeepsSourceMin(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	book := &placeRecorder{}
	service := newTestService(book)

	amount := int64(2_000_000)

	outcome, err := service.CloneOffer(ctx, "source-1", offeredit.Edits{Amount: &amount})
	rq.NoError(err)
	rq.Equal(amount, outcome.Offer.Payload.Amount)
	// Минимум источника не перетирается новой суммой.
	rq.Equal(int64(500_000), outcome.Offer.Payload.MinAmount)
}

func TestServiceAmountEditBelowMinClampsMin(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	book := &placeRecorder{}
	service := newTestService(book)

	amount := int64(300_000) // ниже минимума источника (500 000)

	outcome, err := service.CloneOffer(ctx, "source-1", offeredit.Edits{Amount: &amount})
	rq.NoError(err)
	rq.Equal(amount, outcome.Offer.Payload.Amount)
	// Минимум подтягивается к новой сумме, невыполнимый оффер не размещается.
	rq.Equal(amount, outcome.Offer.Payload.MinAmount)
	rq.Len(book.requests, 1)
}
