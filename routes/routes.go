package routes

import (
	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{
		api.POST("/users/register", controllers.Register)
		api.POST("/users/login", controllers.Login)

		api.GET("/products", controllers.GetProducts)
		api.GET("/products/:id", controllers.GetProductByID)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/users/profile", controllers.GetProfile)
			protected.PUT("/users/profile", controllers.UpdateProfile)
			protected.GET("/users/cart", controllers.GetCart)
			protected.POST("/users/cart", controllers.UpdateCart)

			protected.POST("/orders", controllers.CreateOrder)
			protected.GET("/orders/myorders", controllers.GetMyOrders)
			protected.GET("/orders/:id", controllers.GetOrderByID)
			protected.PUT("/orders/:id/pay", controllers.PayOrder)

			admin := protected.Group("/")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/users", controllers.GetUsers)

				admin.POST("/products", controllers.CreateProduct)
				admin.PUT("/products/:id", controllers.UpdateProduct)
				admin.DELETE("/products/:id", controllers.DeleteProduct)

				admin.GET("/orders", controllers.GetOrdersAdmin)
				admin.PUT("/orders/:id/deliver", controllers.DeliverOrder)
			}
		}
	}
}
