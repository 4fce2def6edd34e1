package orders

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/zekrotja/hermans/internal/catalog"
	kafkax "github.com/zekrotja/hermans/internal/kafka"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
)

type Store interface {
	CreateList(ctx context.Context, list *model.OrderList) error
	GetList(ctx context.Context, id string) (*model.OrderList, error)
	DeleteList(ctx context.Context, id string) error
	CreateOrder(ctx context.Context, listID string, o *model.Order) error
	GetOrders(ctx context.Context, listID string) ([]*model.Order, error)
	GetOrder(ctx context.Context, listID, orderID string) (*model.Order, error)
	UpdateOrder(ctx context.Context, listID string, o *model.Order) error
	DeleteOrder(ctx context.Context, listID, orderID string) error
	CreateFeedback(ctx context.Context, f *model.Feedback) error
	ListFeedback(ctx context.Context) ([]*model.Feedback, error)
}

type Catalog interface {
	Get(ctx context.Context) (*model.ShopData, error)
}

// ListCache holds list snapshots. Invalidate bumps the list generation and
// Set only stores a snapshot whose generation is still current.
type ListCache interface {
	Get(ctx context.Context, id string) (*model.OrderList, bool, error)
	Generation(ctx context.Context, id string) (int64, error)
	Set(ctx context.Context, list *model.OrderList, gen int64) (bool, error)
	Invalidate(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafka.Header)
}

type Service struct {
	Store       Store
	Catalog     Catalog
	Cache       ListCache // optional
	Events      Publisher // optional
	Log         *slog.Logger
	ServiceName string

	Now   func() time.Time
	NewID func() string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) CreateList(ctx context.Context, deadline *time.Time) (*model.OrderList, error) {
	list := &model.OrderList{
		ID:       s.newID(),
		Created:  s.now(),
		Deadline: deadline,
	}
	if err := s.Store.CreateList(ctx, list); err != nil {
		return nil, err
	}
	s.publish(ctx, TopicListCreated, EventListCreated, list.ID, ListCreatedPayload{
		ListID: list.ID, Created: list.Created, Deadline: list.Deadline,
	})
	return list, nil
}

// GetList returns the list with all of its orders, from cache when possible.
func (s *Service) GetList(ctx context.Context, id string) (*model.OrderList, error) {
	fill := false
	var gen int64
	if s.Cache != nil {
		list, ok, err := s.Cache.Get(ctx, id)
		if err != nil {
			s.Log.Warn("list cache read failed", slog.String("list_id", id), logger.Err(err))
		} else if ok {
			return list, nil
		}
		// generation must be read before the store so a concurrent write
		// rejects this fill
		if gen, err = s.Cache.Generation(ctx, id); err != nil {
			s.Log.Warn("list cache generation read failed", slog.String("list_id", id), logger.Err(err))
		} else {
			fill = true
		}
	}

	list, err := s.Store.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	list.Orders, err = s.Store.GetOrders(ctx, id)
	if err != nil {
		return nil, err
	}

	if fill {
		if _, err := s.Cache.Set(ctx, list, gen); err != nil {
			s.Log.Warn("list cache write failed", slog.String("list_id", id), logger.Err(err))
		}
	}
	return list, nil
}

func (s *Service) DeleteList(ctx context.Context, id string) error {
	if err := s.Store.DeleteList(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, TopicListDeleted, EventListDeleted, id, ListDeletedPayload{ListID: id})
	return nil
}

func (s *Service) CreateOrder(ctx context.Context, listID string, in *model.CreateOrder) (*model.CreatedOrder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOrder(ctx, listID, in); err != nil {
		return nil, err
	}

	order := &model.Order{
		CreateOrder: *in,
		ID:          s.newID(),
		Created:     s.now(),
		EditKey:     uuid.NewString(),
	}
	if err := s.Store.CreateOrder(ctx, listID, order); err != nil {
		return nil, err
	}
	s.invalidate(ctx, listID)
	s.publish(ctx, TopicOrderCreated, EventOrderCreated, listID, orderPayload(listID, order, order.Created))
	return &model.CreatedOrder{Order: *order, EditKey: order.EditKey}, nil
}

func (s *Service) GetOrder(ctx context.Context, listID, orderID string) (*model.Order, error) {
	return s.Store.GetOrder(ctx, listID, orderID)
}

func (s *Service) UpdateOrder(ctx context.Context, listID, orderID string, in *model.UpdateOrderPayload) (*model.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	order, err := s.authorize(ctx, listID, orderID, in.EditKey)
	if err != nil {
		return nil, err
	}
	if err := s.checkOrder(ctx, listID, &in.CreateOrder); err != nil {
		return nil, err
	}

	order.CreateOrder = in.CreateOrder
	if err := s.Store.UpdateOrder(ctx, listID, order); err != nil {
		return nil, err
	}
	s.invalidate(ctx, listID)
	s.publish(ctx, TopicOrderUpdated, EventOrderUpdated, listID, orderPayload(listID, order, s.now()))
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, listID, orderID, editKey string) error {
	if _, err := s.authorize(ctx, listID, orderID, editKey); err != nil {
		return err
	}
	if err := s.Store.DeleteOrder(ctx, listID, orderID); err != nil {
		return err
	}
	s.invalidate(ctx, listID)
	s.publish(ctx, TopicOrderDeleted, EventOrderDeleted, listID, OrderPayload{
		ListID: listID, OrderID: orderID, At: s.now(),
	})
	return nil
}

func (s *Service) SubmitFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	fb := *f
	fb.ID = s.newID()
	fb.Timestamp = s.now()
	if err := s.Store.CreateFeedback(ctx, &fb); err != nil {
		return nil, err
	}
	s.publish(ctx, TopicFeedbackSubmitted, EventFeedbackSubmitted, fb.ID, FeedbackSubmittedPayload{
		FeedbackID: fb.ID, Type: fb.Type, Page: fb.Page, Message: fb.Message,
	})
	return &fb, nil
}

func (s *Service) ListFeedback(ctx context.Context) ([]*model.Feedback, error) {
	return s.Store.ListFeedback(ctx)
}

// checkOrder verifies that the list accepts orders and that the selection
// exists in the catalog.
func (s *Service) checkOrder(ctx context.Context, listID string, in *model.CreateOrder) error {
	list, err := s.Store.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if list.Expired(s.now()) {
		return ErrDeadlinePassed
	}
	data, err := s.Catalog.Get(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return catalog.CheckOrder(data, in)
}

func (s *Service) authorize(ctx context.Context, listID, orderID, editKey string) (*model.Order, error) {
	order, err := s.Store.GetOrder(ctx, listID, orderID)
	if err != nil {
		return nil, err
	}
	if editKey == "" || subtle.ConstantTimeCompare([]byte(order.EditKey), []byte(editKey)) != 1 {
		return nil, ErrInvalidEditKey
	}
	return order, nil
}

func (s *Service) invalidate(ctx context.Context, listID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, listID); err != nil {
		s.Log.Warn("list cache invalidation failed", slog.String("list_id", listID), logger.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, topic, eventType, key string, payload any) {
	if s.Events == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now(),
		Producer:      s.ServiceName,
		TraceID:       TraceID(ctx),
		CorrelationID: key,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Events.Publish(topic, PartitionKey(key), kafkax.MustMarshal(ev), kafkax.EventHeaders(eventType, ev.EventVersion)...)
}

func orderPayload(listID string, o *model.Order, at time.Time) OrderPayload {
	p := OrderPayload{
		ListID:  listID,
		OrderID: o.ID,
		Creator: o.Creator,
		At:      at,
	}
	if o.StoreItem != nil {
		p.StoreItemID = o.StoreItem.ID
	}
	if o.Drink != nil {
		p.Drink = o.Drink.Name
	}
	return p
}

// IsClientError reports whether err stems from a bad request rather than a
// server side failure.
func IsClientError(err error) bool {
	var vErrs model.ValidationErrors
	return errors.As(err, &vErrs) ||
		errors.Is(err, catalog.ErrUnknownItem) ||
		errors.Is(err, catalog.ErrInvalidVariants) ||
		errors.Is(err, catalog.ErrInvalidDips) ||
		errors.Is(err, catalog.ErrUnknownDrink)
}
