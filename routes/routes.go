package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-ordering-api/auth"
	"restaurant-ordering-api/handlers"
	"restaurant-ordering-api/middleware"
)

// SetupRoutes wires every handler onto the engine. The database handle and
// the identity verifier are injected so tests can swap in an in-memory
// database and a static token table.
func SetupRoutes(r *gin.Engine, db *gorm.DB, verifier auth.Verifier) {
	authHandler := handlers.NewAuthHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	restaurantHandler := handlers.NewRestaurantHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.GET("/categories", catalogHandler.ListCategories)
		public.GET("/products", catalogHandler.ListProducts)
		public.GET("/products/:id", catalogHandler.GetProduct)
		public.GET("/restaurants", restaurantHandler.List)
		public.GET("/restaurants/:id", restaurantHandler.Get)
		public.POST("/restaurants/nearby", restaurantHandler.Nearby)
		public.GET("/reviews/product/:productId", reviewHandler.ListForProduct)
	}

	// ── Verified-token routes ──────────────────────────────────────
	verified := r.Group("/api")
	verified.Use(middleware.AuthRequired(verifier))
	{
		// Registration needs a verified identity but no user record yet.
		verified.POST("/auth/register", authHandler.Register)
	}

	// ── Registered-user routes ─────────────────────────────────────
	user := r.Group("/api")
	user.Use(middleware.AuthRequired(verifier), middleware.UserRequired(db))
	{
		user.GET("/profile", authHandler.GetProfile)
		user.PUT("/profile", authHandler.UpdateProfile)

		user.POST("/orders", orderHandler.Create)
		user.GET("/orders", orderHandler.ListMine)
		user.PATCH("/orders/:id", orderHandler.UpdateStatus)

		user.POST("/reviews/:productId", reviewHandler.Submit)
		user.DELETE("/reviews/:id", reviewHandler.Delete)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(middleware.AuthRequired(verifier), middleware.UserRequired(db), middleware.AdminRequired())
	{
		admin.GET("/orders/all", orderHandler.ListAll)

		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		admin.DELETE("/categories/:id", catalogHandler.DeleteCategory)

		admin.POST("/products", catalogHandler.CreateProduct)
		admin.PUT("/products/:id", catalogHandler.UpdateProduct)
		admin.DELETE("/products/:id", catalogHandler.DeleteProduct)

		admin.POST("/restaurants", restaurantHandler.Create)
		admin.PUT("/restaurants/:id", restaurantHandler.Update)
		admin.DELETE("/restaurants/:id", restaurantHandler.Delete)
	}
}
