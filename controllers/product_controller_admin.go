package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/models"
)

// CreateProduct adds a catalog entry under a new id.
func (ctl *Controller) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		ctl.fail(c, badInput("All fields are required: "+err.Error()))
		return
	}

	created, err := ctl.products.Add(c.Request.Context(), product)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": "Product added successfully", "Product": created})
}

// UpdateProductPrice sets the price query parameter on product :id.
func (ctl *Controller) UpdateProductPrice(c *gin.Context) {
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil {
		ctl.fail(c, badInput("price must be a number"))
		return
	}

	product, err := ctl.products.UpdatePrice(c.Request.Context(), c.Param("id"), price)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProductQuantity sets the stock quantity of product :id.
func (ctl *Controller) UpdateProductQuantity(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		ctl.fail(c, badInput("quantity must be an integer"))
		return
	}

	product, err := ctl.products.UpdateQuantity(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes product :id. Carts still holding it fail at checkout.
func (ctl *Controller) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := ctl.products.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Message": fmt.Sprintf("Product with id : %s is deleted from the record", id)})
}
