package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
)

// GetCart returns the caller's cart; a caller without one gets an empty cart.
func (ctl *Controller) GetCart(c *gin.Context) {
	user := middleware.CurrentPrincipal(c).Account()

	cart, err := ctl.carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart adds quantity (default 1) of product_id to the caller's cart.
func (ctl *Controller) AddToCart(c *gin.Context) {
	user := middleware.CurrentPrincipal(c).Account()

	productID := c.Query("product_id")
	quantity, err := queryInt(c, "quantity", 1)
	if err != nil {
		ctl.fail(c, err)
		return
	}

	cart, err := ctl.carts.AddItem(c.Request.Context(), user.ID, productID, int(quantity))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": "Item added to cart successfully", "Cart": cart})
}

// RemoveFromCart drops the whole line for product_id.
func (ctl *Controller) RemoveFromCart(c *gin.Context) {
	user := middleware.CurrentPrincipal(c).Account()

	cart, err := ctl.carts.RemoveItem(c.Request.Context(), user.ID, c.Query("product_id"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": "Item remove from cart successfully", "Cart": cart})
}

// DeleteCart empties the caller's cart.
func (ctl *Controller) DeleteCart(c *gin.Context) {
	user := middleware.CurrentPrincipal(c).Account()

	if err := ctl.carts.Clear(c.Request.Context(), user.ID); err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": "All the items in the cart are now deleted"})
}
