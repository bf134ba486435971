package shoppinglist

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Checked  bool   `json:"checked"`
}

type ShoppingList struct {
	ID        uuid.UUID  `json:"_id"`
	Author    uuid.UUID  `json:"-"`
	Recipe    *uuid.UUID `json:"recipe,omitempty"`
	Items     []Item     `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (l *ShoppingList) OwnerID() string {
	if l == nil || l.Author == uuid.Nil {
		return ""
	}
	return l.Author.String()
}

type CreateShoppingListInput struct {
	Author uuid.UUID
	Recipe *uuid.UUID
	Items  []Item
}

type UpdateShoppingListInput struct {
	Items []Item
}
