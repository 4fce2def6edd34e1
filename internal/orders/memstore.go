package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/zekrotja/hermans/internal/model"
)

// MemStore is a Store kept in process memory. It backs STORE_DRIVER=memory
// and the service tests; nothing survives a restart.
type MemStore struct {
	mu       sync.Mutex
	lists    map[string]*model.OrderList
	orders   map[string][]*model.Order
	feedback []*model.Feedback
}

func NewMemStore() *MemStore {
	return &MemStore{lists: map[string]*model.OrderList{}, orders: map[string][]*model.Order{}}
}

func (m *MemStore) CreateList(_ context.Context, l *model.OrderList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.lists[l.ID] = &cp
	return nil
}

func (m *MemStore) GetList(_ context.Context, id string) (*model.OrderList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *MemStore) DeleteList(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[id]; !ok {
		return ErrNotFound
	}
	delete(m.lists, id)
	delete(m.orders, id)
	return nil
}

func (m *MemStore) CreateOrder(_ context.Context, listID string, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return ErrNotFound
	}
	cp := *o
	m.orders[listID] = append(m.orders[listID], &cp)
	return nil
}

func (m *MemStore) GetOrders(_ context.Context, listID string) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Order{}
	for _, o := range m.orders[listID] {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemStore) GetOrder(_ context.Context, listID, orderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders[listID] {
		if o.ID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) UpdateOrder(_ context.Context, listID string, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.orders[listID] {
		if cur.ID == o.ID {
			cp := *o
			m.orders[listID][i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) DeleteOrder(_ context.Context, listID, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.orders[listID] {
		if cur.ID == orderID {
			m.orders[listID] = append(m.orders[listID][:i], m.orders[listID][i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) CreateFeedback(_ context.Context, f *model.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.feedback = append(m.feedback, &cp)
	return nil
}

func (m *MemStore) ListFeedback(context.Context) ([]*model.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*model.Feedback(nil), m.feedback...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
