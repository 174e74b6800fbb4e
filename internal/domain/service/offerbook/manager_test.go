package offerbook_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offerbook"
	"p2p_market/internal/domain/service/offeredit"
)

type memoryRepo struct {
	mu     sync.Mutex
	offers map[string]*entity.OpenOffer
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{offers: map[string]*entity.OpenOffer{}}
}

func (r *memoryRepo) Create(_ context.Context, offer *entity.OpenOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[offer.ID()] = offer

	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*entity.OpenOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.New("not found")
	}

	return offer, nil
}

func (r *memoryRepo) List(_ context.Context, limit, _ int) ([]*entity.OpenOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*entity.OpenOffer, 0, len(r.offers))
	for _, offer := range r.offers {
		all = append(all, offer)
	}

	if len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *memoryRepo) ListByFeeTxID(_ context.Context, feeTxID string) ([]*entity.OpenOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.OpenOffer
	for _, offer := range r.offers {
		if offer.Offer.Payload.OfferFeeTxID == feeTxID {
			matched = append(matched, offer)
		}
	}

	return matched, nil
}

func (r *memoryRepo) UpdateState(_ context.Context, id string, state entity.OpenOfferState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	offer, ok := r.offers[id]
	if !ok {
		return errors.New("not found")
	}

	offer.State = state

	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.offers, id)

	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	err       error
	published []string
}

func (p *fakePublisher) Publish(_ context.Context, offer *entity.Offer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, offer.ID())

	return nil
}

func newFeePaidOffer(id, feeTxID, currency, accountID string) *entity.Offer {
	offer := entity.NewOffer(entity.OfferPayload{
		ID:                    id,
		Direction:             entity.DirectionSell,
		Price:                 decimal.NewFromInt(50_000),
		Amount:                1_000_000,
		MinAmount:             1_000_000,
		BaseCurrencyCode:      "BTC",
		CounterCurrencyCode:   currency,
		MakerPaymentAccountID: accountID,
		OfferFeeTxID:          feeTxID,
		BuyerSecurityDeposit:  150_000,
		SellerSecurityDeposit: 150_000,
	})
	offer.State = entity.OfferStateFeePaid

	return offer
}

func placeRequest(offer *entity.Offer, onPlaced func(), onError func(string)) offeredit.PlaceRequest {
	return offeredit.PlaceRequest{
		Offer:                offer,
		BuyerSecurityDeposit: offer.Payload.BuyerSecurityDeposit,
		IsNewOffer:           false,
		AllowDust:            true,
		TriggerPrice:         decimal.Zero,
		OnPlaced:             onPlaced,
		OnError:              onError,
	}
}

func TestManagerPlaceOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	publisher := &fakePublisher{}
	manager := offerbook.NewManager(repo, publisher)

	placed, failed := 0, 0

	offer := newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1")
	manager.PlaceOffer(ctx, placeRequest(offer, func() { placed++ }, func(string) { failed++ }))
	manager.Wait()

	rq.Equal(1, placed)
	rq.Equal(0, failed)
	rq.Equal([]string{"offer-1"}, publisher.published)

	stored, err := repo.GetByID(ctx, "offer-1")
	rq.NoError(err)
	rq.Equal(entity.OpenOfferStateAvailable, stored.State)
}

func TestManagerPlaceOfferFeeNotPaid(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	manager := offerbook.NewManager(repo, &fakePublisher{})

	placed, failed := 0, 0
	var lastError string

	offer := newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1")
	offer.State = entity.OfferStateUnknown

	manager.PlaceOffer(ctx, placeRequest(offer, func() { placed++ }, func(msg string) {
		failed++
		lastError = msg
	}))
	manager.Wait()

	rq.Equal(0, placed)
	rq.Equal(1, failed)
	rq.Contains(lastError, "fee is not paid")

	_, err := repo.GetByID(ctx, "offer-1")
	rq.Error(err)
}

func TestManagerPublishFailureRollsBack(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	publisher := &fakePublisher{err: errors.New("relay unavailable")}
	manager := offerbook.NewManager(repo, publisher)

	placed, failed := 0, 0

	offer := newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1")
	manager.PlaceOffer(ctx, placeRequest(offer, func() { placed++ }, func(string) { failed++ }))
	manager.Wait()

	rq.Equal(0, placed)
	rq.Equal(1, failed)

	// Запись откачена, оффера в книге нет.
	_, err := repo.GetByID(ctx, "offer-1")
	rq.Error(err)
}

func TestManagerConflictingClonePlacedDeactivated(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	publisher := &fakePublisher{}
	manager := offerbook.NewManager(repo, publisher)

	sibling := entity.NewOpenOffer(newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1"), decimal.Zero)
	rq.NoError(repo.Create(ctx, sibling))

	placed, failed := 0, 0

	clone := newFeePaidOffer("offer-2", "fee-tx-1", "USD", "acc-1")
	manager.PlaceOffer(ctx, placeRequest(clone, func() { placed++ }, func(string) { failed++ }))
	manager.Wait()

	// Клон размещён, но деактивирован и в сеть не ушёл.
	rq.Equal(1, placed)
	rq.Equal(0, failed)
	rq.Empty(publisher.published)

	stored, err := repo.GetByID(ctx, "offer-2")
	rq.NoError(err)
	rq.Equal(entity.OpenOfferStateDeactivated, stored.State)
}

func TestManagerCannotActivateOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	manager := offerbook.NewManager(repo, &fakePublisher{})

	sibling := entity.NewOpenOffer(newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1"), decimal.Zero)
	rq.NoError(repo.Create(ctx, sibling))

	// Тот же fee tx, рынок и аккаунт — конфликт.
	blocked, err := manager.CannotActivateOffer(ctx, newFeePaidOffer("offer-2", "fee-tx-1", "USD", "acc-1"))
	rq.NoError(err)
	rq.True(blocked)

	// Другой рынок — конфликта нет.
	blocked, err = manager.CannotActivateOffer(ctx, newFeePaidOffer("offer-3", "fee-tx-1", "EUR", "acc-1"))
	rq.NoError(err)
	rq.False(blocked)

	// Другой платёжный аккаунт — конфликта нет.
	blocked, err = manager.CannotActivateOffer(ctx, newFeePaidOffer("offer-4", "fee-tx-1", "USD", "acc-2"))
	rq.NoError(err)
	rq.False(blocked)

	// Деактивированный собрат не считается.
	sibling.State = entity.OpenOfferStateDeactivated
	blocked, err = manager.CannotActivateOffer(ctx, newFeePaidOffer("offer-5", "fee-tx-1", "USD", "acc-1"))
	rq.NoError(err)
	rq.False(blocked)
}

func TestManagerMaxOpenOffers(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	manager := offerbook.NewManager(repo, &fakePublisher{}).WithMaxOpenOffers(1)

	existing := entity.NewOpenOffer(newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1"), decimal.Zero)
	rq.NoError(repo.Create(ctx, existing))

	blocked, err := manager.CannotActivateOffer(ctx, newFeePaidOffer("offer-2", "fee-tx-2", "EUR", "acc-2"))
	rq.NoError(err)
	rq.True(blocked)
}

func TestManagerResultSink(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	results := make(chan offerbook.PlacementResult, 1)

	manager := offerbook.NewManager(newMemoryRepo(), &fakePublisher{}).
		WithResultSink(results)

	offer := newFeePaidOffer("offer-1", "fee-tx-1", "USD", "acc-1")
	manager.PlaceOffer(ctx, placeRequest(offer, nil, nil))
	manager.Wait()

	result := <-results
	rq.Equal("offer-1", result.OfferID)
	rq.Equal("USD", result.CurrencyCode)
	rq.True(result.Placed)
}
