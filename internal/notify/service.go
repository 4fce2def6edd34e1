// Package notify consumes list events: it keeps the per-list activity
// counters and logs notifications for new orders and feedback.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	kafkax "github.com/zekrotja/hermans/internal/kafka"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/orders"
	"github.com/zekrotja/hermans/internal/redisx"
)

const dedupScope = "notifier"

var Topics = []string{
	orders.TopicListDeleted,
	orders.TopicOrderCreated,
	orders.TopicOrderDeleted,
	orders.TopicFeedbackSubmitted,
}

var handled = map[string]bool{
	orders.EventListDeleted:       true,
	orders.EventOrderCreated:      true,
	orders.EventOrderDeleted:      true,
	orders.EventFeedbackSubmitted: true,
}

type Activity interface {
	OrderAdded(ctx context.Context, listID string, at time.Time) error
	OrderRemoved(ctx context.Context, listID string) error
	Drop(ctx context.Context, listID string) error
}

type Service struct {
	Redis    redis.Cmdable
	Activity Activity
	Log      *slog.Logger
}

// Handle is installed as the consumer handler.
func (s *Service) Handle(ctx context.Context, m kafka.Message) error {
	if t := kafkax.HeaderValue(m, "x-event-type"); t != "" && !handled[t] {
		return nil
	}

	// 1) decode envelope
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message, retrying won't help
		s.Log.Error("undecodable event dropped", slog.String("topic", m.Topic), logger.Err(err))
		return nil
	}

	// 2) dedup via Redis on event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, dedupScope, env.EventID)
	first, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	if err := s.dispatch(ctx, &env); err != nil {
		// let a redelivery try again
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, env *orders.Envelope) error {
	log := s.Log.With(slog.String("event_id", env.EventID), slog.String("trace_id", env.TraceID))

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderPayload](env.Payload)
		if err != nil {
			return err
		}
		at := p.At
		if at.IsZero() {
			at = env.OccurredAt
		}
		if err := s.Activity.OrderAdded(ctx, p.ListID, at); err != nil {
			return err
		}
		log.Info("order placed",
			slog.String("list_id", p.ListID),
			slog.String("order_id", p.OrderID),
			slog.String("creator", p.Creator),
			slog.String("store_item", p.StoreItemID))

	case orders.EventOrderDeleted:
		p, err := kafkax.UnwrapPayload[orders.OrderPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.Activity.OrderRemoved(ctx, p.ListID); err != nil {
			return err
		}
		log.Info("order withdrawn", slog.String("list_id", p.ListID), slog.String("order_id", p.OrderID))

	case orders.EventListDeleted:
		p, err := kafkax.UnwrapPayload[orders.ListDeletedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.Activity.Drop(ctx, p.ListID); err != nil {
			return err
		}
		log.Info("list closed", slog.String("list_id", p.ListID))

	case orders.EventFeedbackSubmitted:
		p, err := kafkax.UnwrapPayload[orders.FeedbackSubmittedPayload](env.Payload)
		if err != nil {
			return err
		}
		log.Warn("new feedback",
			slog.String("feedback_id", p.FeedbackID),
			slog.String("type", p.Type),
			slog.String("page", p.Page),
			slog.String("message", p.Message))
	}
	// other event types are not ours
	return nil
}
