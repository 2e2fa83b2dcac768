package routes

import (
	"time"

	"cartscout/handlers"
	"cartscout/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the wired handlers for route registration.
type HandlerBundle struct {
	Search   *handlers.SearchHandler
	Checkout *handlers.CheckoutHandler
}

// RegisterSearchRoutes registers the aggregation endpoints. The SSE stream
// is public; the UI passes its client ID on the query string.
func RegisterSearchRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/search")
	{
		api.GET("", hb.Search.StreamSearchHandler)
		api.POST("", hb.Search.AggregateSearchHandler)
	}
}

// RegisterCheckoutRoutes registers the checkout state machine endpoints.
// All of them require a guest shopper token.
func RegisterCheckoutRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/checkout")
	api.Use(middleware.JWTAuthClientMiddleware())
	{
		api.POST("/select", hb.Checkout.SelectProductHandler)
		api.GET("/:handle", hb.Checkout.GetSessionHandler)
		api.POST("/:handle/submit", hb.Checkout.SubmitStepHandler)
		api.POST("/:handle/back", hb.Checkout.BackHandler)
		api.POST("/:handle/cancel", hb.Checkout.CancelHandler)
	}
}

// RegisterClientRoutes registers guest session issuance.
func RegisterClientRoutes(r *gin.Engine) {
	r.POST("/api/client/session", handlers.CreateClientSessionHandler)
}

// RegisterHealthRoute registers the health endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes wires up all routes.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterClientRoutes(r)
	RegisterSearchRoutes(r, hb)
	RegisterCheckoutRoutes(r, hb)
	RegisterHealthRoute(r)
}
