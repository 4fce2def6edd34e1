package views

import (
	"context"
	"strings"
	"sync"

	"github.com/zekrotja/hermans/internal/model"
)

// ListView creates a list and hands out its share link.
type ListView struct {
	API     API
	WebBase string

	mu   sync.Mutex
	list *model.OrderList
}

func ShareLink(webBase, listID string) string {
	return strings.TrimRight(webBase, "/") + "/lists/" + listID
}

func (v *ListView) Create(ctx context.Context) (*model.OrderList, string, error) {
	list, err := v.API.CreateList(ctx)
	if err != nil {
		return nil, "", err
	}
	v.mu.Lock()
	v.list = list
	v.mu.Unlock()
	return list, ShareLink(v.WebBase, list.ID), nil
}

func (v *ListView) Current() *model.OrderList {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.list
}

// Delete removes the current list. Without a current list it is a no-op.
func (v *ListView) Delete(ctx context.Context) error {
	v.mu.Lock()
	list := v.list
	v.mu.Unlock()
	if list == nil {
		return nil
	}
	if _, err := v.API.DeleteList(ctx, list.ID); err != nil {
		return err
	}
	v.mu.Lock()
	if v.list == list {
		v.list = nil
	}
	v.mu.Unlock()
	return nil
}
