package model

type ShopData struct {
	Categories []*ShopCategory  `json:"categories" validate:"omitempty,dive,required"`
	Drinks     []*ShopDrinkItem `json:"drinks" validate:"omitempty,dive,required"`
}

func (d *ShopData) Validate() error { return validateStruct(d) }

type ShopCategory struct {
	ID    string           `json:"id" validate:"required"`
	Name  string           `json:"name"`
	Items []*ShopStoreItem `json:"items,omitempty" validate:"omitempty,dive,required"`
}

type ShopVariant struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type ShopStoreItem struct {
	ID          string         `json:"id" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Price       string         `json:"price"`
	Variants    []*ShopVariant `json:"variants,omitempty" validate:"omitempty,dive,required"`
	Dips        []string       `json:"dips,omitempty"`
}

func (t *ShopStoreItem) HasVariant(name string) bool {
	for _, v := range t.Variants {
		if v.Name == name {
			return true
		}
	}
	return false
}

type ShopDrinkItem struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price"`
}
