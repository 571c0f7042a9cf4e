package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/controllers"
	"storefront/middleware"
)

func RegisterRoutes(r *gin.Engine, ctl *controllers.Controller, resolver middleware.PrincipalResolver) {
	authed := middleware.AuthMiddleware(resolver)
	admin := middleware.AdminMiddleware(resolver)

	r.GET("/health", ctl.Health)
	r.GET("/ready", ctl.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/token", ctl.Login)

	order := r.Group("/order", authed)
	{
		order.POST("/create", ctl.CreateOrder)
		order.GET("/user", ctl.GetUserOrders)
		order.GET("/all", admin, ctl.GetOrdersAdmin)
		order.DELETE("/delete/:order_id", admin, ctl.DeleteOrder)
	}

	cart := r.Group("/cart", authed)
	{
		cart.GET("/items", ctl.GetCart)
		cart.PUT("/add", ctl.AddToCart)
		cart.PUT("/remove", ctl.RemoveFromCart)
		cart.DELETE("/delete", ctl.DeleteCart)
	}

	product := r.Group("/product")
	{
		product.GET("/show/all", ctl.GetProducts)
		product.GET("/show", ctl.SearchProducts)

		product.POST("/add", authed, admin, ctl.CreateProduct)
		product.PUT("/update/price/:id", authed, admin, ctl.UpdateProductPrice)
		product.PUT("/update/quantity/:id", authed, admin, ctl.UpdateProductQuantity)
		product.DELETE("/delete/:id", authed, admin, ctl.DeleteProduct)
	}

	user := r.Group("/user")
	{
		user.POST("/add", ctl.AddUser)
		user.GET("/show/all", ctl.GetUsers)
		user.GET("/show/:email", ctl.GetUser)
		user.PUT("/update/address/:email", authed, ctl.UpdateUserAddress)
		user.DELETE("/delete/self", authed, ctl.DeleteSelf)
	}

	admins := r.Group("/admin")
	{
		admins.POST("/add", ctl.AddAdmin)
		admins.GET("/show/all", ctl.GetAdmins)
		admins.GET("/show/:email", ctl.GetAdmin)
		admins.PUT("/update/address", authed, admin, ctl.UpdateAdminAddress)
		admins.DELETE("/delete", authed, admin, ctl.DeleteAdminSelf)
		admins.DELETE("/deleteuser/:email", authed, admin, ctl.DeleteUser)
	}
}
