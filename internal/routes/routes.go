package routes

import (
	"pharmacare-backend/internal/handlers"
	"pharmacare-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
		}

		// Public catalog so visitors can browse before signing up.
		api.GET("/medicines", handlers.GetMedicines)
		api.GET("/medicines/:id", handlers.GetMedicine)
		api.GET("/categories", handlers.GetCategories)
		api.GET("/categories/:id", handlers.GetCategory)

		// Payment gateway webhook, authenticated by the gateway itself.
		api.POST("/payments/notification", handlers.HandlePaymentNotification)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/users", handlers.GetUsers)
			protected.GET("/users/:id", handlers.GetUser)
			protected.PATCH("/users/:id", handlers.UpdateUser)
			protected.DELETE("/users/:id", handlers.DeleteUser)

			protected.GET("/pharmacists", handlers.GetPharmacists)
			protected.GET("/pharmacists/:user_id", handlers.GetPharmacist)
			protected.POST("/pharmacists", handlers.CreatePharmacist)
			protected.PATCH("/pharmacists/:user_id", handlers.UpdatePharmacist)

			protected.POST("/categories", handlers.CreateCategory)
			protected.PATCH("/categories/:id", handlers.UpdateCategory)
			protected.DELETE("/categories/:id", handlers.DeleteCategory)

			protected.POST("/medicines", handlers.CreateMedicine)
			protected.PATCH("/medicines/:id", handlers.UpdateMedicine)
			protected.DELETE("/medicines/:id", handlers.DeleteMedicine)

			protected.GET("/cart", handlers.GetCart)
			protected.PUT("/cart", handlers.UpdateCart)
			protected.DELETE("/cart", handlers.ClearCart)

			protected.GET("/orders", handlers.GetOrders)
			protected.GET("/orders/:id", handlers.GetOrder)
			protected.POST("/orders", handlers.CreateOrder)
			protected.PATCH("/orders/:id", handlers.UpdateOrder)
			protected.DELETE("/orders/:id", handlers.DeleteOrder)
			protected.GET("/orders/:id/invoice", handlers.GetOrderInvoice)

			protected.GET("/payments", handlers.GetPayments)
			protected.GET("/payments/:id", handlers.GetPayment)
			protected.POST("/payments", handlers.CreatePayment)
			protected.DELETE("/payments/:id", handlers.DeletePayment)

			protected.GET("/deliveries", handlers.GetDeliveries)
			protected.GET("/deliveries/:id", handlers.GetDelivery)
			protected.DELETE("/deliveries/:id", handlers.DeleteDelivery)

			protected.GET("/pharmacists/:user_id/slots", handlers.GetSlots)
			protected.POST("/consultations", handlers.BookConsultation)
			protected.GET("/consultations", handlers.GetConsultations)
			protected.GET("/consultations/:id", handlers.GetConsultation)
			protected.PATCH("/consultations/:id", handlers.UpdateConsultation)
			protected.DELETE("/consultations/:id", handlers.DeleteConsultation)

			protected.GET("/notifications", handlers.GetNotifications)
			protected.GET("/notifications/:id", handlers.GetNotification)
			protected.DELETE("/notifications/:id", handlers.DeleteNotification)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/dashboard", handlers.GetDashboard)
			}
		}
	}
}
