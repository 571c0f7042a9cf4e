package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

const noMoreProducts = "No More Collections Left in the Products Collection"

// GetProducts pages through the catalog with page and size.
func (ctl *Controller) GetProducts(c *gin.Context) {
	page, err := pageFromQuery(c, "page", "size")
	if err != nil {
		ctl.fail(c, err)
		return
	}

	listing, err := ctl.products.List(c.Request.Context(), page)
	ctl.renderProducts(c, listing, err)
}

// SearchProducts lists products whose name equals the name query parameter.
func (ctl *Controller) SearchProducts(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		ctl.fail(c, badInput("name is required"))
		return
	}
	page, err := pageFromQuery(c, "page", "size")
	if err != nil {
		ctl.fail(c, err)
		return
	}

	listing, err := ctl.products.Search(c.Request.Context(), name, page)
	ctl.renderProducts(c, listing, err)
}

func (ctl *Controller) renderProducts(c *gin.Context, listing *services.Listing[models.Product], err error) {
	if errors.Is(err, services.ErrNoMoreRecords) {
		emptyPage(c, "message", noMoreProducts)
		return
	}
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     listing.PageNo,
		"size":     listing.PageSize,
		"total":    listing.Total,
		"products": listing.Items,
	})
}
