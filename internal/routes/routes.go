package routes

import (
	"net/http"
	"os"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/handlers"
	"github.com/comfortdesignszw-mny/ecommerce-web/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the storefront frontend to call the API with
// credentials. The allowed origin is configurable for deployments.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	// --- Health Check (Public) ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	// --- Auth Routes (Public) ---
	router.POST("/auth/admin/register", h.RegisterAdmin)
	router.POST("/auth/login", h.Login)

	// --- Catalog Reads (Public) ---
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/services", h.ListServices)
	router.GET("/services/:id", h.GetService)

	// --- Email Dispatch (called by the out-of-process scheduler) ---
	router.POST("/notifications/email", h.DispatchEmails)

	// --- Protected Routes (Session Required) ---
	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware())
	{
		// Cart
		authed.GET("/cart", h.GetCart)
		authed.POST("/cart", h.AddToCart)
		authed.PUT("/cart", h.UpdateCart)
		authed.DELETE("/cart", h.RemoveFromCart)

		// Orders
		authed.GET("/orders", h.ListOrders)
		authed.POST("/orders", h.PlaceOrder)

		// Catalog Writes
		authed.POST("/products", h.CreateProduct)
		authed.PUT("/products/:id", h.UpdateProduct)
		authed.DELETE("/products/:id", h.DeleteProduct)
		authed.POST("/services", h.CreateService)
		authed.PUT("/services/:id", h.UpdateService)
		authed.DELETE("/services/:id", h.DeleteService)

		// Admin Inventory
		authed.GET("/admin/inventory", h.GetInventory)
		authed.PUT("/admin/inventory", h.UpdateInventory)
	}

	return router
}
