package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/lox"
)

type OpenOfferRepository struct {
	db *sqlx.DB
}

func NewOpenOfferRepository(db *sqlx.DB) *OpenOfferRepository {
	return &OpenOfferRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *OpenOfferRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create сохраняет новый открытый оффер.
func (r *OpenOfferRepository) Create(ctx context.Context, offer *entity.OpenOffer) error {
	schema, err := fromOpenOffer(offer)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal payload")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO open_offers (id, fee_tx_id, currency_code, direction, state, trigger_price, payload, offer_state, created_at)
			VALUES (:id, :fee_tx_id, :currency_code, :direction, :state, :trigger_price, :payload, :offer_state, :created_at)`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert open offer")
		}

		return nil
	})
}

// GetByID возвращает открытый оффер по идентификатору.
func (r *OpenOfferRepository) GetByID(ctx context.Context, id string) (*entity.OpenOffer, error) {
	query := `
		SELECT id, fee_tx_id, currency_code, direction, state, trigger_price, payload, offer_state, created_at
		FROM open_offers
		WHERE id = $1`

	var schema openOfferSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.OfferNotFound, "open offer not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get open offer")
	}

	return r.convert(&schema)
}

// List возвращает страницу открытых офферов, новые раньше.
func (r *OpenOfferRepository) List(ctx context.Context, limit, offset int) ([]*entity.OpenOffer, error) {
	query := `
		SELECT id, fee_tx_id, currency_code, direction, state, trigger_price, payload, offer_state, created_at
		FROM open_offers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var schemas []openOfferSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list open offers")
	}

	return r.convertAll(schemas)
}

// ListByFeeTxID возвращает все офферы, делящие одну fee-транзакцию (клоны).
func (r *OpenOfferRepository) ListByFeeTxID(ctx context.Context, feeTxID string) ([]*entity.OpenOffer, error) {
	query := `
		SELECT id, fee_tx_id, currency_code, direction, state, trigger_price, payload, offer_state, created_at
		FROM open_offers
		WHERE fee_tx_id = $1`

	var schemas []openOfferSchema
	if err := r.db.SelectContext(ctx, &schemas, query, feeTxID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list offers by fee tx")
	}

	return r.convertAll(schemas)
}

// UpdateState переводит открытый оффер в новое состояние.
func (r *OpenOfferRepository) UpdateState(ctx context.Context, id string, state entity.OpenOfferState) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE open_offers SET state = $1, updated_at = $2 WHERE id = $3`

		res, err := tx.ExecContext(ctx, query, string(state), time.Now(), id)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update state")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.OfferNotFound, "open offer not found")
		}

		return nil
	})
}

// Delete снимает оффер с книги.
func (r *OpenOfferRepository) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM open_offers WHERE id = $1`, id)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete open offer")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.OfferNotFound, "open offer not found")
		}

		return nil
	})
}

func (r *OpenOfferRepository) convert(schema *openOfferSchema) (*entity.OpenOffer, error) {
	offer, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to unmarshal payload")
	}

	return offer, nil
}

func (r *OpenOfferRepository) convertAll(schemas []openOfferSchema) ([]*entity.OpenOffer, error) {
	return lox.MapErr(schemas, func(schema openOfferSchema) (*entity.OpenOffer, error) {
		return r.convert(&schema)
	})
}
