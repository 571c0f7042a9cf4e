package models

import (
	"errors"
	"math"
)

type CartItem struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Cart is the single cart document of one user.
type Cart struct {
	UserID string     `bson:"user_id" json:"user_id"`
	Items  []CartItem `bson:"items" json:"items"`
}

var ErrQuantityOverflow = errors.New("cart line quantity out of range")

// AddItem accumulates quantity onto an existing line or appends a new one.
// The cart is left unchanged when the sum would not fit in an int.
func (c *Cart) AddItem(productID string, quantity int) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity > 0 && c.Items[i].Quantity > math.MaxInt-quantity {
				return ErrQuantityOverflow
			}
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

// RemoveItem drops the line for productID and reports whether it was present.
func (c *Cart) RemoveItem(productID string) bool {
	kept := c.Items[:0]
	removed := false
	for _, it := range c.Items {
		if it.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	return removed
}
