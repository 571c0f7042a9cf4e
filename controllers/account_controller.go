package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/services"
)

// The user and admin route groups share these handlers; role selects the
// collection and the wording of the responses.

func (ctl *Controller) addAccount(c *gin.Context, role string) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		ctl.fail(c, badInput("invalid account: "+err.Error()))
		return
	}

	acct, err := ctl.accounts.Register(c.Request.Context(), role, in)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User added with Username : %s and User ID : %s", acct.Username, acct.ID),
	})
}

func (ctl *Controller) listAccounts(c *gin.Context, role, itemsKey, emptyMessage string) {
	page, err := pageFromQuery(c, "page_no", "page_size")
	if err != nil {
		ctl.fail(c, err)
		return
	}

	listing, err := ctl.accounts.List(c.Request.Context(), role, page)
	if errors.Is(err, services.ErrNoMoreRecords) {
		emptyPage(c, "Message", emptyMessage)
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
		itemsKey:    listing.Items,
	})
}

func (ctl *Controller) showAccount(c *gin.Context, role string) {
	acct, err := ctl.accounts.Get(c.Request.Context(), role, c.Param("email"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (ctl *Controller) updateAddress(c *gin.Context, role, email string) {
	address, ok := c.GetQuery("address")
	if !ok {
		ctl.fail(c, badInput("address is required"))
		return
	}

	acct, err := ctl.accounts.UpdateAddress(c.Request.Context(), role, email, address)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (ctl *Controller) deleteAccount(c *gin.Context, role, email string) {
	if err := ctl.accounts.Delete(c.Request.Context(), role, email); err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Message": fmt.Sprintf("User with email : %s is deleted from the record", email),
	})
}
