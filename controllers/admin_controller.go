package controllers

import (
	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
)

// AddAdmin registers an admin account.
func (ctl *Controller) AddAdmin(c *gin.Context) {
	ctl.addAccount(c, models.RoleAdmin)
}

// GetAdmins lists admin accounts.
func (ctl *Controller) GetAdmins(c *gin.Context) {
	ctl.listAccounts(c, models.RoleAdmin, "Admin Users", "No More Admins Left in the Admin Collection")
}

// GetAdmin looks an admin up by email.
func (ctl *Controller) GetAdmin(c *gin.Context) {
	ctl.showAccount(c, models.RoleAdmin)
}

// UpdateAdminAddress changes the calling admin's address.
func (ctl *Controller) UpdateAdminAddress(c *gin.Context) {
	ctl.updateAddress(c, models.RoleAdmin, middleware.CurrentPrincipal(c).Account().Email)
}

// DeleteAdminSelf removes the calling admin.
func (ctl *Controller) DeleteAdminSelf(c *gin.Context) {
	ctl.deleteAccount(c, models.RoleAdmin, middleware.CurrentPrincipal(c).Account().Email)
}

// DeleteUser lets an admin remove any user account.
func (ctl *Controller) DeleteUser(c *gin.Context) {
	ctl.deleteAccount(c, models.RoleUser, c.Param("email"))
}
