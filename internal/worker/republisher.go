package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offerbook"
	"p2p_market/pkg/contextx"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Republisher периодически переподаёт открытые офферы в сеть и снимает те,
// у которых рыночная цена пересекла trigger price.
type Republisher struct {
	repo      offerbook.OpenOfferRepository
	publisher offerbook.Publisher
	priceFeed entity.PriceFeed
	scheduler offerbook.RepublishScheduler
}

func NewRepublisher(
	repo offerbook.OpenOfferRepository,
	publisher offerbook.Publisher,
	priceFeed entity.PriceFeed,
	scheduler offerbook.RepublishScheduler,
) *Republisher {
	return &Republisher{
		repo:      repo,
		publisher: publisher,
		priceFeed: priceFeed,
		scheduler: scheduler,
	}
}

func (r *Republisher) HandleRepublish(ctx context.Context, task *asynq.Task) error {
	var payload RepublishPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %v: %w", err, asynq.SkipRetry)
	}

	openOffer, err := r.repo.GetByID(ctx, payload.OfferID)
	if err != nil {
		if domain.HasCode(err, errcodes.OfferNotFound) {
			// Оффер сняли — переподача больше не нужна.
			return nil
		}
		return fmt.Errorf("repo.GetByID: %w", err)
	}

	if openOffer.IsDeactivated() {
		return nil
	}

	if r.triggerCrossed(ctx, openOffer) {
		if err := r.repo.UpdateState(ctx, openOffer.ID(), entity.OpenOfferStateDeactivated); err != nil {
			return fmt.Errorf("repo.UpdateState: %w", err)
		}

		logger(ctx).Info("offer deactivated by trigger price",
			slog.String(logx.FieldOfferID, openOffer.ID()),
			logx.Decimal("trigger-price", openOffer.TriggerPrice))
		return nil
	}

	if err := r.publisher.Publish(ctx, openOffer.Offer); err != nil {
		return fmt.Errorf("publisher.Publish: %w", err)
	}

	if err := r.scheduler.ScheduleRepublish(ctx, openOffer.ID()); err != nil {
		return fmt.Errorf("scheduler.ScheduleRepublish: %w", err)
	}

	logger(ctx).Debug("offer republished", slog.String(logx.FieldOfferID, openOffer.ID()))

	return nil
}

// triggerCrossed: для SELL снимаем, когда рынок упал ниже триггера, для
// BUY — когда поднялся выше.
func (r *Republisher) triggerCrossed(ctx context.Context, openOffer *entity.OpenOffer) bool {
	if openOffer.TriggerPrice.IsZero() || !openOffer.Offer.Payload.UseMarketBasedPrice {
		return false
	}

	marketPrice, err := r.priceFeed.MarketPrice(openOffer.Offer.CurrencyCode())
	if err != nil {
		logger(ctx).Warn("market price unavailable, trigger skipped",
			slog.String(logx.FieldOfferID, openOffer.ID()), logx.Error(err))
		return false
	}

	if openOffer.Offer.Direction() == entity.DirectionSell {
		return marketPrice.LessThan(openOffer.TriggerPrice)
	}

	return marketPrice.GreaterThan(openOffer.TriggerPrice)
}
