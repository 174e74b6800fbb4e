package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
)

type PaymentAccountRepository struct {
	db *sqlx.DB
}

func NewPaymentAccountRepository(db *sqlx.DB) *PaymentAccountRepository {
	return &PaymentAccountRepository{db: db}
}

// Create сохраняет платёжный аккаунт.
func (r *PaymentAccountRepository) Create(ctx context.Context, account *entity.PaymentAccount) error {
	schema, err := fromPaymentAccount(account)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal account")
	}

	query := `
		INSERT INTO payment_accounts (id, owner_id, payment_method_id, account_name, body, created_at)
		VALUES (:id, :owner_id, :payment_method_id, :account_name, :body, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert account")
	}

	return nil
}

// PaymentAccountByID возвращает аккаунт по идентификатору.
func (r *PaymentAccountRepository) PaymentAccountByID(ctx context.Context, id string) (*entity.PaymentAccount, error) {
	query := `
		SELECT id, owner_id, payment_method_id, account_name, body, created_at
		FROM payment_accounts
		WHERE id = $1`

	var schema paymentAccountSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.PaymentAccountNotFound, "payment account not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get account")
	}

	account, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to unmarshal account")
	}

	return account, nil
}

// PaymentAccounts возвращает все аккаунты пользователя.
func (r *PaymentAccountRepository) PaymentAccounts(ctx context.Context, ownerID string) ([]*entity.PaymentAccount, error) {
	query := `
		SELECT id, owner_id, payment_method_id, account_name, body, created_at
		FROM payment_accounts
		WHERE owner_id = $1
		ORDER BY created_at`

	var schemas []paymentAccountSchema
	if err := r.db.SelectContext(ctx, &schemas, query, ownerID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list accounts")
	}

	accounts := make([]*entity.PaymentAccount, 0, len(schemas))
	for i := range schemas {
		account, err := schemas[i].toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to unmarshal account")
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}
