package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/zekrotja/hermans/internal/model"
)

var (
	ErrUnknownItem     = errors.New("unknown store item")
	ErrInvalidVariants = errors.New("invalid variants")
	ErrInvalidDips     = errors.New("invalid dips")
	ErrUnknownDrink    = errors.New("unknown drink")
)

// ListError names every rejected value of one check.
type ListError struct {
	Kind   error
	Values []string
}

func (e *ListError) Error() string {
	return e.Kind.Error() + ": " + strings.Join(e.Values, ", ")
}

func (e *ListError) Unwrap() error { return e.Kind }

// CheckSelection verifies that the chosen variants and dips are offered by item.
func CheckSelection(item *model.ShopStoreItem, sel *model.StoreItem) error {
	var badVariants []string
	for _, v := range sel.Variants {
		if !item.HasVariant(v) {
			badVariants = append(badVariants, v)
		}
	}
	if len(badVariants) > 0 {
		return &ListError{Kind: ErrInvalidVariants, Values: badVariants}
	}

	var badDips []string
	for _, d := range sel.Dips {
		if !slices.Contains(item.Dips, d) {
			badDips = append(badDips, d)
		}
	}
	if len(badDips) > 0 {
		return &ListError{Kind: ErrInvalidDips, Values: badDips}
	}
	return nil
}

// CheckOrder validates an order against the catalog snapshot.
func CheckOrder(data *model.ShopData, o *model.CreateOrder) error {
	item, ok := FindItem(data, o.StoreItem.ID)
	if !ok {
		return &ListError{Kind: ErrUnknownItem, Values: []string{o.StoreItem.ID}}
	}
	if err := CheckSelection(item, o.StoreItem); err != nil {
		return err
	}
	if o.Drink != nil && !HasDrink(data, o.Drink.Name) {
		return &ListError{Kind: ErrUnknownDrink, Values: []string{o.Drink.Name}}
	}
	return nil
}
