package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

const noMoreOrders = "No More Orders Left in the Order Collection"

// CreateOrder checks out the caller's whole cart.
func (ctl *Controller) CreateOrder(c *gin.Context) {
	user := middleware.CurrentPrincipal(c).Account()

	order, err := ctl.orders.PlaceOrder(c.Request.Context(), user.ID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": "Order Places Successfully", "Order": order})
}

// GetUserOrders lists the caller's own orders, paginated by page_no and page_size.
func (ctl *Controller) GetUserOrders(c *gin.Context) {
	user := middleware.CurrentPrincipal(c).Account()

	page, err := pageFromQuery(c, "page_no", "page_size")
	if err != nil {
		ctl.fail(c, err)
		return
	}

	listing, err := ctl.orders.ListForUser(c.Request.Context(), user.ID, page)
	ctl.renderOrders(c, listing, err)
}

func (ctl *Controller) renderOrders(c *gin.Context, listing *services.Listing[models.Order], err error) {
	if errors.Is(err, services.ErrNoMoreRecords) {
		emptyPage(c, "Message", noMoreOrders)
		return
	}
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Page_No":   listing.PageNo,
		"Page_Size": listing.PageSize,
		"Total":     listing.Total,
		"Orders":    listing.Items,
	})
}
