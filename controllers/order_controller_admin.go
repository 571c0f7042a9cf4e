package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetOrdersAdmin lists every order.
func (ctl *Controller) GetOrdersAdmin(c *gin.Context) {
	page, err := pageFromQuery(c, "page_no", "page_size")
	if err != nil {
		ctl.fail(c, err)
		return
	}

	listing, err := ctl.orders.ListAll(c.Request.Context(), page)
	ctl.renderOrders(c, listing, err)
}

// DeleteOrder removes one order by id.
func (ctl *Controller) DeleteOrder(c *gin.Context) {
	id := c.Param("order_id")

	if err := ctl.orders.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": fmt.Sprintf("Order with ID %s is deleted from the record", id)})
}
