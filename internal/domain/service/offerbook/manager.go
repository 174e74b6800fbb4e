package offerbook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/pkg/contextx"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type OpenOfferRepository interface {
	Create(ctx context.Context, offer *entity.OpenOffer) error
	GetByID(ctx context.Context, id string) (*entity.OpenOffer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.OpenOffer, error)
	ListByFeeTxID(ctx context.Context, feeTxID string) ([]*entity.OpenOffer, error)
	UpdateState(ctx context.Context, id string, state entity.OpenOfferState) error
	Delete(ctx context.Context, id string) error
}

// Publisher раздаёт оффер в сеть. Реализация может быть заглушкой в тестах.
type Publisher interface {
	Publish(ctx context.Context, offer *entity.Offer) error
}

// RepublishScheduler ставит периодическую переподачу оффера в очередь.
type RepublishScheduler interface {
	ScheduleRepublish(ctx context.Context, offerID string) error
}

// PlacementResult уходит в notifier после завершения публикации.
type PlacementResult struct {
	OfferID      string
	CurrencyCode string
	Placed       bool
	ErrorMessage string
}

// Manager — книга открытых офферов: размещение, проверка активации,
// снятие. Реализует offeredit.OfferRegistry.
type Manager struct {
	repo      OpenOfferRepository
	publisher Publisher
	scheduler RepublishScheduler

	maxOpenOffers int
	results       chan<- PlacementResult

	wg sync.WaitGroup
}

func NewManager(repo OpenOfferRepository, publisher Publisher) *Manager {
	return &Manager{
		repo:          repo,
		publisher:     publisher,
		maxOpenOffers: 25,
	}
}

func (m *Manager) WithMaxOpenOffers(n int) *Manager {
	m.maxOpenOffers = n
	return m
}

func (m *Manager) WithScheduler(scheduler RepublishScheduler) *Manager {
	m.scheduler = scheduler
	return m
}

func (m *Manager) WithResultSink(results chan<- PlacementResult) *Manager {
	m.results = results
	return m
}

// CannotActivateOffer — true, если клон сейчас нельзя активировать:
// другой оффер с тем же fee tx уже активен на том же рынке с тем же
// платёжным аккаунтом, либо упёрлись в лимит открытых офферов.
func (m *Manager) CannotActivateOffer(ctx context.Context, offer *entity.Offer) (bool, error) {
	siblings, err := m.repo.ListByFeeTxID(ctx, offer.Payload.OfferFeeTxID)
	if err != nil {
		return false, fmt.Errorf("repo.ListByFeeTxID: %w", err)
	}

	for _, sibling := range siblings {
		if sibling.ID() == offer.ID() || sibling.IsDeactivated() {
			continue
		}

		sameMarket := sibling.Offer.CurrencyCode() == offer.CurrencyCode()
		sameAccount := sibling.Offer.Payload.MakerPaymentAccountID == offer.Payload.MakerPaymentAccountID

		if sameMarket && sameAccount {
			return true, nil
		}
	}

	open, err := m.repo.List(ctx, m.maxOpenOffers+1, 0)
	if err != nil {
		return false, fmt.Errorf("repo.List: %w", err)
	}

	return len(open) >= m.maxOpenOffers, nil
}

// PlaceOffer публикует оффер асинхронно. Возвращается сразу; исход
// сигналится ровно одним из колбэков, не более одного раза.
func (m *Manager) PlaceOffer(ctx context.Context, req offeredit.PlaceRequest) {
	// Колбэки зовутся из горутины менеджера; без отмены через ctx —
	// отмена в полёте не входит в контракт.
	ctx = context.WithoutCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.place(ctx, req)
	}()
}

// Wait дожидается завершения всех размещений в полёте (для shutdown).
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) place(ctx context.Context, req offeredit.PlaceRequest) {
	fail := func(err error) {
		placementsTotal.WithLabelValues(outcomeFailed).Inc()
		logger(ctx).Error("offer placement failed",
			slog.String(logx.FieldOfferID, req.Offer.ID()), logx.Error(err))
		m.report(PlacementResult{
			OfferID:      req.Offer.ID(),
			CurrencyCode: req.Offer.CurrencyCode(),
			ErrorMessage: err.Error(),
		})

		if req.OnError != nil {
			req.OnError(err.Error())
		}
	}

	if err := m.validatePlacement(req); err != nil {
		fail(err)
		return
	}

	blocked, err := m.CannotActivateOffer(ctx, req.Offer)
	if err != nil {
		fail(fmt.Errorf("CannotActivateOffer: %w", err))
		return
	}

	openOffer := entity.NewOpenOffer(req.Offer, req.TriggerPrice)
	if blocked {
		// Конфликтующий клон размещаем деактивированным, в сеть не раздаём.
		openOffer.State = entity.OpenOfferStateDeactivated
	}

	if err := m.repo.Create(ctx, openOffer); err != nil {
		fail(fmt.Errorf("repo.Create: %w", err))
		return
	}

	if !blocked {
		if err := m.publisher.Publish(ctx, req.Offer); err != nil {
			// Откатываем запись, размещение не состоялось.
			if delErr := m.repo.Delete(ctx, openOffer.ID()); delErr != nil {
				logger(ctx).Error("rollback failed", slog.String(logx.FieldOfferID, openOffer.ID()), logx.Error(delErr))
			}

			fail(fmt.Errorf("publisher.Publish: %w", err))
			return
		}

		if m.scheduler != nil {
			if err := m.scheduler.ScheduleRepublish(ctx, openOffer.ID()); err != nil {
				logger(ctx).Warn("republish scheduling failed", slog.String(logx.FieldOfferID, openOffer.ID()), logx.Error(err))
			}
		}
	}

	outcome := outcomePlaced
	if blocked {
		outcome = outcomeDeactivated
	}
	placementsTotal.WithLabelValues(outcome).Inc()

	logger(ctx).Info("offer placed",
		slog.String(logx.FieldOfferID, req.Offer.ID()),
		slog.String(logx.FieldCurrency, req.Offer.CurrencyCode()),
		slog.Bool("is-new", req.IsNewOffer),
		slog.Bool("deactivated", blocked))

	m.report(PlacementResult{
		OfferID:      req.Offer.ID(),
		CurrencyCode: req.Offer.CurrencyCode(),
		Placed:       true,
	})

	if req.OnPlaced != nil {
		req.OnPlaced()
	}
}

func (m *Manager) validatePlacement(req offeredit.PlaceRequest) error {
	if req.Offer.State != entity.OfferStateFeePaid {
		return domain.NewError(errcodes.OfferPlacementFailed, "offer fee is not paid")
	}

	if req.BuyerSecurityDeposit <= 0 && !req.AllowDust {
		return domain.NewError(errcodes.OfferPlacementFailed, "buyer security deposit is zero")
	}

	return nil
}

func (m *Manager) report(result PlacementResult) {
	if m.results == nil {
		return
	}

	select {
	case m.results <- result:
	default:
		// Переполненный канал уведомлений не должен блокировать размещение.
	}
}

// OpenOffers возвращает страницу открытых офферов.
func (m *Manager) OpenOffers(ctx context.Context, limit, offset int) ([]*entity.OpenOffer, error) {
	offers, err := m.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("repo.List: %w", err)
	}

	return offers, nil
}

// OpenOfferByID возвращает открытый оффер либо доменную ошибку OfferNotFound.
func (m *Manager) OpenOfferByID(ctx context.Context, id string) (*entity.OpenOffer, error) {
	offer, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repo.GetByID: %w", err)
	}

	return offer, nil
}
