package router

import (
	"database/sql"

	"veridian_haveli_backend/internal/handlers"
	"veridian_haveli_backend/internal/middleware"
	"veridian_haveli_backend/internal/repositories"
	"veridian_haveli_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application and returns the
// reservation service so the caller can hook the expiry sweep scheduler to it.
func Setup(engine *gin.Engine, db *sql.DB) services.ReservationService {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	pricingService := services.NewPricingService()
	inventoryService := services.NewInventoryService(roomRepo, pricingService, db)
	reservationService := services.NewReservationService(reservationRepo, roomRepo, orderRepo, inventoryService, pricingService, db)
	folioService := services.NewFolioService(reservationRepo, orderRepo, pricingService, reservationService)
	orderService := services.NewOrderService(orderRepo, reservationRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	roomHandler := handlers.NewRoomHandler(inventoryService)
	reservationHandler := handlers.NewReservationHandler(reservationService, folioService)
	orderHandler := handlers.NewOrderHandler(orderService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupRoomRoutes(authenticated, roomHandler)
		SetupReservationRoutes(authenticated, reservationHandler)
		SetupOrderRoutes(authenticated, orderHandler)
	}

	return reservationService
}
