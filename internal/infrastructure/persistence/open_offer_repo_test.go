package persistence_test

import (
	"context"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/infrastructure/persistence"
	"p2p_market/pkg/dbtest"
	"p2p_market/pkg/errcodes"
)

// Интеграционные тесты требуют живой базы: PG_TEST_DSN=postgres://... go test ./...
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec(`DROP TABLE IF EXISTS open_offers, payment_accounts`)
		_ = db.Close()
	})

	require.NoError(t, dbtest.MigrateFromFile(
		db,
		"../../../migrations/0001_open_offers.sql",
		"../../../migrations/0002_payment_accounts.sql",
	))

	return db
}

func storedOpenOffer(id, feeTxID string) *entity.OpenOffer {
	offer := entity.NewOffer(entity.OfferPayload{
		ID:                    id,
		Direction:             entity.DirectionSell,
		Price:                 decimal.NewFromInt(50_000),
		Amount:                1_000_000,
		MinAmount:             500_000,
		BaseCurrencyCode:      "BTC",
		CounterCurrencyCode:   "USD",
		MakerPaymentAccountID: "acc-1",
		OfferFeeTxID:          feeTxID,
		BuyerSecurityDeposit:  150_000,
		SellerSecurityDeposit: 150_000,
	})
	offer.State = entity.OfferStateFeePaid

	return entity.NewOpenOffer(offer, decimal.NewFromInt(45_000))
}

func TestOpenOfferRepositoryRoundTrip(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewOpenOfferRepository(testDB(t))

	stored := storedOpenOffer("offer-1", "fee-tx-1")
	rq.NoError(repo.Create(ctx, stored))

	got, err := repo.GetByID(ctx, "offer-1")
	rq.NoError(err)
	rq.Equal(stored.Offer.Payload, got.Offer.Payload)
	rq.Equal(entity.OpenOfferStateAvailable, got.State)
	rq.True(stored.TriggerPrice.Equal(got.TriggerPrice))
}

func TestOpenOfferRepositoryNotFound(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewOpenOfferRepository(testDB(t))

	_, err := repo.GetByID(ctx, "missing")
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.OfferNotFound))

	rq.True(domain.HasCode(repo.UpdateState(ctx, "missing", entity.OpenOfferStateDeactivated), errcodes.OfferNotFound))
	rq.True(domain.HasCode(repo.Delete(ctx, "missing"), errcodes.OfferNotFound))
}

func TestOpenOfferRepositoryListByFeeTxID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewOpenOfferRepository(testDB(t))

	rq.NoError(repo.Create(ctx, storedOpenOffer("offer-1", "fee-tx-1")))
	rq.NoError(repo.Create(ctx, storedOpenOffer("offer-2", "fee-tx-1")))
	rq.NoError(repo.Create(ctx, storedOpenOffer("offer-3", "fee-tx-2")))

	clones, err := repo.ListByFeeTxID(ctx, "fee-tx-1")
	rq.NoError(err)
	rq.Len(clones, 2)

	page, err := repo.List(ctx, 2, 0)
	rq.NoError(err)
	rq.Len(page, 2)
}

func TestOpenOfferRepositoryUpdateState(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewOpenOfferRepository(testDB(t))

	rq.NoError(repo.Create(ctx, storedOpenOffer("offer-1", "fee-tx-1")))
	rq.NoError(repo.UpdateState(ctx, "offer-1", entity.OpenOfferStateDeactivated))

	got, err := repo.GetByID(ctx, "offer-1")
	rq.NoError(err)
	rq.Equal(entity.OpenOfferStateDeactivated, got.State)

	rq.NoError(repo.Delete(ctx, "offer-1"))
	_, err = repo.GetByID(ctx, "offer-1")
	rq.True(domain.HasCode(err, errcodes.OfferNotFound))
}
