package router

import (
	"veridian_haveli_backend/internal/handlers"
	"veridian_haveli_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)

			adminOnly := authRequiredRoutes.Group("")
			adminOnly.Use(middleware.RoleAuthMiddleware("Admin"))
			{
				adminOnly.POST("/register", authHandler.RegisterUser)
			}
		}
	}
}

// SetupRoomRoutes sets up the room inventory routes.
func SetupRoomRoutes(authenticatedGroup *gin.RouterGroup, roomHandler *handlers.RoomHandler) {
	roomRoutes := authenticatedGroup.Group("/rooms")
	roomRoutes.Use(middleware.RoleAuthMiddleware("Admin", "FrontDesk"))
	{
		roomRoutes.GET("", roomHandler.GetRooms)
		roomRoutes.GET("/available", roomHandler.GetAvailableRooms)
		roomRoutes.GET("/:room_number", roomHandler.GetRoomByNumber)
		roomRoutes.PATCH("/:room_number/status", roomHandler.SetRoomStatus)

		adminOnly := roomRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("Admin"))
		{
			adminOnly.POST("", roomHandler.CreateRoom)
			adminOnly.PUT("/:room_number", roomHandler.UpdateRoom)
			adminOnly.DELETE("/:room_number", roomHandler.DeleteRoom)
		}
	}
}

// SetupReservationRoutes sets up the reservation lifecycle and folio routes.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	reservationRoutes := authenticatedGroup.Group("/reservations")
	reservationRoutes.Use(middleware.RoleAuthMiddleware("Admin", "FrontDesk"))
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.GET("/:id", reservationHandler.GetReservationByID)
		reservationRoutes.PATCH("/:id/check-in", reservationHandler.CheckIn)
		reservationRoutes.PATCH("/:id/check-out", reservationHandler.CheckOut)
		reservationRoutes.PATCH("/:id/cancel", reservationHandler.CancelReservation)
		reservationRoutes.POST("/:id/payments", reservationHandler.RecordPayment)
		reservationRoutes.GET("/:id/folio", reservationHandler.GetFolio)

		adminOnly := reservationRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("Admin"))
		{
			adminOnly.POST("/sweep", reservationHandler.SweepStale)
			adminOnly.DELETE("/:id", reservationHandler.DeleteReservation)
		}
	}
}

// SetupOrderRoutes sets up the room-service order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware("Admin", "FrontDesk"))
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)

		adminOnly := orderRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("Admin"))
		{
			adminOnly.DELETE("/:id", orderHandler.DeleteOrder)
		}
	}
}
