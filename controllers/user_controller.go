package controllers

import (
	"github.com/gin-gonic/gin"

	"storefront/auth"
	"storefront/middleware"
	"storefront/models"
)

// AddUser registers a customer account.
func (ctl *Controller) AddUser(c *gin.Context) {
	ctl.addAccount(c, models.RoleUser)
}

// GetUsers lists customer accounts without their password hashes.
func (ctl *Controller) GetUsers(c *gin.Context) {
	ctl.listAccounts(c, models.RoleUser, "Users", "No More Users Left in the User Collection")
}

// GetUser looks a customer up by email.
func (ctl *Controller) GetUser(c *gin.Context) {
	ctl.showAccount(c, models.RoleUser)
}

// UpdateUserAddress only lets callers change the address on their own account.
func (ctl *Controller) UpdateUserAddress(c *gin.Context) {
	email := c.Param("email")
	if middleware.CurrentPrincipal(c).Account().Email != email {
		ctl.fail(c, auth.ErrForbidden)
		return
	}
	ctl.updateAddress(c, models.RoleUser, email)
}

// DeleteSelf removes the caller's customer account and cart.
func (ctl *Controller) DeleteSelf(c *gin.Context) {
	ctl.deleteAccount(c, models.RoleUser, middleware.CurrentPrincipal(c).Account().Email)
}
