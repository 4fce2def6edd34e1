package scraper

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/zekrotja/hermans/internal/model"
)

const (
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36"
	DrinksCategory = "getraenke"
)

var ignoreCategories = []string{"shop", "allergene-zusatzstoffe"}

type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %q failed with status %d", e.Path, e.Code)
}

type Scraper struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Scraper {
	return &Scraper{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ScrapeAll walks every shop category. The drinks category becomes the
// drinks list instead of a food category.
func (s *Scraper) ScrapeAll(ctx context.Context) (*model.ShopData, error) {
	doc, err := s.req(ctx, "shop")
	if err != nil {
		return nil, err
	}

	data := &model.ShopData{
		Categories: []*model.ShopCategory{},
		Drinks:     []*model.ShopDrinkItem{},
	}
	for _, cat := range parseCategories(doc) {
		items, err := s.ScrapeCategory(ctx, cat.ID)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.ID, err)
		}
		if cat.ID == DrinksCategory {
			for _, it := range items {
				data.Drinks = append(data.Drinks, &model.ShopDrinkItem{
					Name:        it.Title,
					Description: it.Description,
					Price:       it.Price,
				})
			}
			continue
		}
		cat.Items = items
		data.Categories = append(data.Categories, cat)
	}
	return data, nil
}

func (s *Scraper) ScrapeCategory(ctx context.Context, category string) ([]*model.ShopStoreItem, error) {
	doc, err := s.req(ctx, category)
	if err != nil {
		return nil, err
	}
	return parseItems(doc), nil
}

func parseCategories(doc *goquery.Document) []*model.ShopCategory {
	categories := []*model.ShopCategory{}
	doc.Find("select.select[name=target]").First().Children().Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("value")
		if !ok || id == "" || slices.Contains(ignoreCategories, id) {
			return
		}
		categories = append(categories, &model.ShopCategory{
			ID:   id,
			Name: strings.TrimSpace(s.Text()),
		})
	})
	return categories
}

func parseItems(doc *goquery.Document) []*model.ShopStoreItem {
	items := []*model.ShopStoreItem{}
	doc.Find("div.formbody").Each(func(_ int, s *goquery.Selection) {
		var item model.ShopStoreItem
		item.ID, _ = s.Find("input[type=hidden][name=FORM_SUBMIT]").First().Attr("value")
		item.Title = strings.TrimSpace(s.Find("h3[itemprop=name]").First().Text())
		item.Description = strings.TrimSpace(s.Find("div.description").Text())
		item.Price = strings.TrimSpace(s.Find("div.price[itemprop=price]").Text())
		if item.Title == "" || item.ID == "" {
			return
		}

		s.Find("select[name=variant] option").Each(func(_ int, o *goquery.Selection) {
			name, _ := o.Attr("value")
			if name = strings.TrimSpace(name); name == "" {
				return
			}
			item.Variants = append(item.Variants, &model.ShopVariant{
				Name:        name,
				Description: strings.TrimSpace(o.Text()),
			})
		})
		s.Find("input[type=checkbox][name^=dip]").Each(func(_ int, d *goquery.Selection) {
			if v, ok := d.Attr("value"); ok && v != "" && !slices.Contains(item.Dips, v) {
				item.Dips = append(item.Dips, v)
			}
		})
		items = append(items, &item)
	})
	return items
}

func (s *Scraper) req(ctx context.Context, path string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
