package views

import (
	"context"
	"sync"

	"github.com/zekrotja/hermans/internal/catalog"
	"github.com/zekrotja/hermans/internal/client"
	"github.com/zekrotja/hermans/internal/model"
)

// OrderView is the order screen of one list: catalog search, item
// selection and submission.
type OrderView struct {
	API    API
	ListID string

	fence client.Fence

	mu       sync.Mutex
	shop     *model.ShopData
	list     *model.OrderList
	filter   string
	creator  string
	selected *model.StoreItem
	drink    *model.Drink
}

// Load fetches the catalog. When a newer Load started meanwhile the result
// is dropped and ErrStale returned.
func (v *OrderView) Load(ctx context.Context) error {
	token := v.fence.Begin()
	shop, err := v.API.GetShopData(ctx)
	// check and store under one lock so a newer load cannot slip in between
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.fence.IsLatest(token) {
		return ErrStale
	}
	if err != nil {
		return err
	}
	v.shop = shop
	return nil
}

// Refresh re-fetches the list with its orders.
func (v *OrderView) Refresh(ctx context.Context) (*model.OrderList, error) {
	list, err := v.API.GetList(ctx, v.ListID)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.list = list
	v.mu.Unlock()
	return list, nil
}

func (v *OrderView) List() *model.OrderList {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.list
}

func (v *OrderView) SetFilter(text string) {
	v.mu.Lock()
	v.filter = text
	v.mu.Unlock()
}

// Categories returns the loaded categories narrowed by the current filter.
func (v *OrderView) Categories() []*model.ShopCategory {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shop == nil {
		return nil
	}
	return catalog.Filter(v.shop.Categories, v.filter)
}

func (v *OrderView) Drinks() []*model.ShopDrinkItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shop == nil {
		return nil
	}
	return v.shop.Drinks
}

// Select replaces the current selection after checking it against the catalog.
func (v *OrderView) Select(item *model.StoreItem) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shop == nil {
		return ErrNotLoaded
	}
	entry, ok := catalog.FindItem(v.shop, item.ID)
	if !ok {
		return ErrUnknownEntry
	}
	if err := catalog.CheckSelection(entry, item); err != nil {
		return err
	}
	sel := *item
	v.selected = &sel
	return nil
}

func (v *OrderView) Deselect() {
	v.mu.Lock()
	v.selected = nil
	v.mu.Unlock()
}

func (v *OrderView) Selected() *model.StoreItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return nil
	}
	sel := *v.selected
	return &sel
}

func (v *OrderView) SetCreator(name string) {
	v.mu.Lock()
	v.creator = name
	v.mu.Unlock()
}

// SetDrink sets the optional drink; nil removes it.
func (v *OrderView) SetDrink(d *model.Drink) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if d == nil {
		v.drink = nil
		return
	}
	cp := *d
	v.drink = &cp
}

// Submit places the order. The selection and drink are cleared on success,
// the creator stays for the next order.
func (v *OrderView) Submit(ctx context.Context) (*model.CreatedOrder, error) {
	v.mu.Lock()
	if v.creator == "" {
		v.mu.Unlock()
		return nil, ErrNoCreator
	}
	if v.selected == nil {
		v.mu.Unlock()
		return nil, ErrNoSelection
	}
	sel := *v.selected
	in := &model.CreateOrder{Creator: v.creator, StoreItem: &sel}
	if v.drink != nil {
		d := *v.drink
		in.Drink = &d
	}
	v.mu.Unlock()

	created, err := v.API.CreateOrder(ctx, v.ListID, in)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.selected = nil
	v.drink = nil
	v.mu.Unlock()
	return created, nil
}
