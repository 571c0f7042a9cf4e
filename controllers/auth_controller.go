package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login exchanges a form-encoded email and password for a bearer token.
func (ctl *Controller) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.fail(c, badInput("username and password are required"))
		return
	}

	token, err := ctl.resolver.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		ctl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "type": "Bearer"})
}
