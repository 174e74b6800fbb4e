package offeredit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
)

// OpenOfferSource — чтение открытых офферов мейкера.
type OpenOfferSource interface {
	OpenOfferByID(ctx context.Context, id string) (*entity.OpenOffer, error)
	OpenOffers(ctx context.Context, limit, offset int) ([]*entity.OpenOffer, error)
}

// Edits — правки пользователя поверх скопированных из источника полей.
// nil-поле означает "оставить как в источнике".
type Edits struct {
	Price               *decimal.Decimal
	UseMarketBasedPrice *bool
	MarketPriceMargin   *float64
	Amount              *int64
	MinAmount           *int64
	TriggerPrice        *decimal.Decimal
}

// CloneOutcome — результат принятого к размещению клона. Размещение
// асинхронное, поэтому тут только сам клон и предупреждение об активации.
type CloneOutcome struct {
	Offer             *entity.Offer
	ActivationBlocked bool
}

// Service прогоняет сценарий "клонировать и заменить" поверх сессий:
// одна сессия на запрос, без разделяемого состояния.
type Service struct {
	sctx   SessionContext
	offers OpenOfferSource
}

func NewService(sctx SessionContext, offers OpenOfferSource) *Service {
	return &Service{
		sctx:   sctx,
		offers: offers,
	}
}

func (s *Service) OpenOffers(ctx context.Context, limit, offset int) ([]*entity.OpenOffer, error) {
	offers, err := s.offers.OpenOffers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("offers.OpenOffers: %w", err)
	}

	return offers, nil
}

func (s *Service) OpenOffer(ctx context.Context, id string) (*entity.OpenOffer, error) {
	offer, err := s.offers.OpenOfferByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("offers.OpenOfferByID: %w", err)
	}

	return offer, nil
}

// CloneOffer клонирует открытый оффер с правками и отдаёт клон книге.
// Если активация клона сейчас запрещена, он всё равно размещается —
// деактивированным, а вызывающему возвращается предупреждение.
func (s *Service) CloneOffer(ctx context.Context, sourceID string, edits Edits) (CloneOutcome, error) {
	session, err := s.prepareSession(ctx, sourceID, edits)
	if err != nil {
		return CloneOutcome{}, err
	}

	blocked, err := session.CannotActivate(ctx)
	if err != nil {
		return CloneOutcome{}, fmt.Errorf("session.CannotActivate: %w", err)
	}

	offer, err := session.Submit(ctx, nil, nil)
	if err != nil {
		return CloneOutcome{}, fmt.Errorf("session.Submit: %w", err)
	}

	return CloneOutcome{
		Offer:             offer,
		ActivationBlocked: blocked,
	}, nil
}

// CloneEligibility отвечает, можно ли будет активировать клон с данными
// правками, ничего не размещая.
func (s *Service) CloneEligibility(ctx context.Context, sourceID string, edits Edits) (bool, error) {
	session, err := s.prepareSession(ctx, sourceID, edits)
	if err != nil {
		return false, err
	}

	blocked, err := session.CannotActivate(ctx)
	if err != nil {
		return false, fmt.Errorf("session.CannotActivate: %w", err)
	}

	return blocked, nil
}

// prepareSession: сброшенная сессия → наполнение из источника →
// инициализация → копирование редактируемых полей → правки пользователя.
func (s *Service) prepareSession(ctx context.Context, sourceID string, edits Edits) (*CloneSession, error) {
	source, err := s.offers.OpenOfferByID(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("offers.OpenOfferByID: %w", err)
	}

	session := NewCloneSession(s.sctx)
	session.Reset()
	session.ApplyOpenOffer(ctx, source)

	draft := session.Edit().Draft()

	ok, err := session.Init(draft.Direction, draft.TradeCurrency)
	if err != nil {
		return nil, fmt.Errorf("session.Init: %w", err)
	}

	if !ok {
		return nil, domain.NewError(errcodes.EditInitFailed, "clone session is not initialized")
	}

	session.PopulateFields()
	applyEdits(session.Edit(), edits)

	return session, nil
}

// MinAmount применяется раньше Amount: порядок значим.
func applyEdits(edit *EditSession, edits Edits) {
	if edits.MinAmount != nil {
		edit.SetMinAmount(*edits.MinAmount)
	}

	if edits.Amount != nil {
		edit.SetAmount(*edits.Amount)
	}

	if edits.Price != nil {
		edit.SetPrice(*edits.Price)
	}

	if edits.UseMarketBasedPrice != nil {
		edit.SetUseMarketBasedPrice(*edits.UseMarketBasedPrice)
	}

	if edits.MarketPriceMargin != nil {
		edit.SetMarketPriceMargin(*edits.MarketPriceMargin)
	}

	if edits.TriggerPrice != nil {
		edit.SetTriggerPrice(*edits.TriggerPrice)
	}
}
