// Package views holds the state behind the list, order and feedback screens.
// Views own no persistent state; everything goes through the API client.
package views

import (
	"context"
	"errors"

	"github.com/zekrotja/hermans/internal/model"
)

var (
	ErrStale        = errors.New("stale response discarded")
	ErrNoCreator    = errors.New("creator is required")
	ErrNoSelection  = errors.New("no store item selected")
	ErrNotLoaded    = errors.New("catalog not loaded")
	ErrUnknownEntry = errors.New("item is not part of the catalog")
)

type API interface {
	GetShopData(ctx context.Context) (*model.ShopData, error)
	CreateList(ctx context.Context) (*model.OrderList, error)
	GetList(ctx context.Context, id string) (*model.OrderList, error)
	DeleteList(ctx context.Context, id string) (*model.OrderList, error)
	CreateOrder(ctx context.Context, listID string, o *model.CreateOrder) (*model.CreatedOrder, error)
	SubmitFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error)
}
