package store

import (
	"context"
	"strings"

	"semihos/internal/core"
	"semihos/internal/log"
)

type ShoppingInput struct {
	Text     string
	Category core.ShoppingCategory
	Image    string
}

// ProductInput is a product picked from the lookup results.
type ProductInput struct {
	Name  string
	Brand string
	Image string
}

func (s *Store) AddShoppingItem(ctx context.Context, in ShoppingInput) (core.ShoppingItem, error) {
	if in.Category == "" {
		in.Category = core.ShoppingFood
	}
	item := core.ShoppingItem{
		Text:     strings.TrimSpace(in.Text),
		Category: in.Category,
		Image:    strings.TrimSpace(in.Image),
	}
	if err := item.Validate(); err != nil {
		return core.ShoppingItem{}, err
	}
	err := s.mutation(ctx, EntityShoppingItem, log.OpCreate, func() (core.ID, error) {
		item.ID = s.nextIDLocked()
		s.shoppingList = append(s.shoppingList, item)
		return item.ID, nil
	}, KeyShoppingList)
	return item, err
}

// AddShoppingProduct materialises a looked-up product as a list item,
// keeping its image. fallback is used when the product has no name.
func (s *Store) AddShoppingProduct(ctx context.Context, p ProductInput, category core.ShoppingCategory, fallback string) (core.ShoppingItem, error) {
	text := strings.TrimSpace(p.Name)
	if text == "" {
		text = fallback
	}
	return s.AddShoppingItem(ctx, ShoppingInput{Text: text, Category: category, Image: p.Image})
}

func (s *Store) ToggleShoppingItem(ctx context.Context, id core.ID) (core.ShoppingItem, error) {
	var item core.ShoppingItem
	err := s.mutation(ctx, EntityShoppingItem, log.OpToggle, func() (core.ID, error) {
		i := indexOf(s.shoppingList, id)
		if i < 0 {
			return 0, notFound(EntityShoppingItem, id)
		}
		s.shoppingList[i].Completed = !s.shoppingList[i].Completed
		item = s.shoppingList[i]
		return id, nil
	}, KeyShoppingList)
	return item, err
}

func (s *Store) RemoveShoppingItem(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityShoppingItem, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.shoppingList, ok = removeByID(s.shoppingList, id); !ok {
			return 0, notFound(EntityShoppingItem, id)
		}
		return id, nil
	}, KeyShoppingList)
}
