package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TypeOfferRepublish = "offer:republish"

	QueueOffers = "offers"
)

type RepublishPayload struct {
	OfferID string `json:"offer_id"`
}

// Scheduler ставит переподачу оффера в очередь asynq. Реализует
// offerbook.RepublishScheduler.
type Scheduler struct {
	client   *asynq.Client
	interval time.Duration
}

func NewScheduler(client *asynq.Client, interval time.Duration) *Scheduler {
	return &Scheduler{
		client:   client,
		interval: interval,
	}
}

func (s *Scheduler) ScheduleRepublish(ctx context.Context, offerID string) error {
	payload, err := json.Marshal(RepublishPayload{OfferID: offerID})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	task := asynq.NewTask(TypeOfferRepublish, payload)

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueOffers),
		asynq.ProcessIn(s.interval),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("client.Enqueue: %w", err)
	}

	return nil
}
