// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/notification"
	"github.com/your-org/bakery-backend/internal/domain/order"
	"github.com/your-org/bakery-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bakery-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bakery-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under the API base path
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	log := middleware.NewLogger(cfg)

	sender := email.NewSMTPSender(&cfg.Email)
	dispatcher := notification.NewDispatcher(sender, cfg, log)
	orderService := order.NewService(db, cfg, dispatcher, log)

	SetupAuthRoutes(rg, db, cfg, log)
	SetupCatalogRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, orderService, cfg)
	SetupReviewRoutes(rg, db, cfg)
	SetupWishlistRoutes(rg, db, cfg)
	SetupContactRoutes(rg, dispatcher, cfg)
	SetupAdminRoutes(rg, db, orderService, cfg, log)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, log)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}
}

// SetupCatalogRoutes sets up public catalog browsing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	addOnHandler := handlers.NewAddOnHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/add-ons", productHandler.GetProductAddOns)
		products.GET("/:id/images", productHandler.GetProductImages)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/icons", categoryHandler.ListIcons)
		categories.GET("/:slug", categoryHandler.GetCategory)
	}

	rg.GET("/add-ons", addOnHandler.ListAddOns)
}

// SetupCartRoutes sets up cart routes, available to guests and users alike
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/merge", middleware.AuthMiddleware(cfg), cartHandler.MergeCart)
	}
}

// SetupOrderRoutes sets up public order routes. Checkout is open to guests.
func SetupOrderRoutes(rg *gin.RouterGroup, orderService *order.Service, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(orderService, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("/:id", orderHandler.GetOrder)
	}
}

// SetupReviewRoutes sets up review routes
func SetupReviewRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	rg.GET("/products/:id/reviews", reviewHandler.GetProductReviews)
	rg.GET("/products/:id/rating-stats", reviewHandler.GetRatingStats)

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(cfg))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}
}

// SetupWishlistRoutes sets up wishlist routes, all authenticated
func SetupWishlistRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)

	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware(cfg))
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/items", wishlistHandler.AddToWishlist)
		wishlist.GET("/items/:productId", wishlistHandler.CheckWishlist)
		wishlist.DELETE("/items/:productId", wishlistHandler.RemoveFromWishlist)
	}
}

// SetupContactRoutes sets up the contact form route
func SetupContactRoutes(rg *gin.RouterGroup, dispatcher *notification.Dispatcher, cfg *config.Config) {
	contactHandler := handlers.NewContactHandler(dispatcher, cfg)

	rg.POST("/contact", contactHandler.SubmitInquiry)
}

// SetupAdminRoutes sets up the back-office routes, all admin-gated
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, orderService *order.Service, cfg *config.Config, log *logrus.Logger) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	addOnHandler := handlers.NewAddOnHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(orderService, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg, log)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		products := admin.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.POST("/:id/images", productHandler.AddProductImage)
			products.DELETE("/:id/images/:imageId", productHandler.DeleteProductImage)
			products.POST("/:id/add-ons", addOnHandler.AssignAddOn)
			products.DELETE("/:id/add-ons/:addOnId", addOnHandler.UnassignAddOn)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		addOns := admin.Group("/add-ons")
		{
			addOns.POST("", addOnHandler.CreateAddOn)
			addOns.PUT("/:id", addOnHandler.UpdateAddOn)
			addOns.DELETE("/:id", addOnHandler.DeleteAddOn)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}

		users := admin.Group("/users")
		{
			users.GET("", adminHandler.ListUsers)
			users.GET("/:id", adminHandler.GetUser)
		}
	}
}
