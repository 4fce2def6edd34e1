package catalog

import (
	"strings"

	"github.com/zekrotja/hermans/internal/model"
)

// Filter returns copies of the categories holding only items whose title
// contains text, ignoring case. Categories without matches are dropped.
// An empty text keeps every non-empty category.
func Filter(categories []*model.ShopCategory, text string) []*model.ShopCategory {
	needle := strings.ToLower(text)
	out := make([]*model.ShopCategory, 0, len(categories))
	for _, c := range categories {
		if c == nil {
			continue
		}
		items := make([]*model.ShopStoreItem, 0, len(c.Items))
		for _, it := range c.Items {
			if it != nil && strings.Contains(strings.ToLower(it.Title), needle) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		cp := *c
		cp.Items = items
		out = append(out, &cp)
	}
	return out
}

func FindItem(data *model.ShopData, id string) (*model.ShopStoreItem, bool) {
	if data == nil {
		return nil, false
	}
	for _, c := range data.Categories {
		for _, it := range c.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return nil, false
}

func HasDrink(data *model.ShopData, name string) bool {
	if data == nil {
		return false
	}
	for _, d := range data.Drinks {
		if d.Name == name {
			return true
		}
	}
	return false
}
