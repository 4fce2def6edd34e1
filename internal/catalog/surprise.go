package catalog

import "github.com/zekrotja/hermans/internal/model"

const (
	SurpriseCategoryID = "__etc"
	SurpriseItemID     = "__surprise"
)

func surpriseCategory() *model.ShopCategory {
	return &model.ShopCategory{
		ID:   SurpriseCategoryID,
		Name: "Etc",
		Items: []*model.ShopStoreItem{{
			ID:          SurpriseItemID,
			Title:       "🎉 Überrasch mich 🎉",
			Description: "Die bestellende Person sucht sich etwas für dich aus 😎",
			Variants: []*model.ShopVariant{
				{Name: "vegetarisch", Description: "Vegetarisch"},
				{Name: "ohne zwiebeln", Description: "ohne Zwiebeln (wenn vorhanden)"},
			},
		}},
	}
}

// WithSurprise returns a shallow copy of data with the surprise category first.
// data itself is left untouched.
func WithSurprise(data *model.ShopData) *model.ShopData {
	out := &model.ShopData{}
	if data != nil {
		out.Drinks = data.Drinks
		out.Categories = make([]*model.ShopCategory, 0, len(data.Categories)+1)
	}
	out.Categories = append(out.Categories, surpriseCategory())
	if data != nil {
		out.Categories = append(out.Categories, data.Categories...)
	}
	return out
}
