package routes

import (
	"net/http"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/controllers"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every handler the storefront exposes.
type Controllers struct {
	Product    *controllers.ProductController
	Cart       *controllers.CartController
	Checkout   *controllers.CheckoutController
	Profile    *controllers.ProfileController
	Blog       *controllers.BlogController
	Home       *controllers.HomeController
	Newsletter *controllers.NewsletterController
	Media      *controllers.MediaController
}

// RegisterRoutes mounts the storefront. limiter guards the public form posts.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, limiter *middleware.RateLimiter) error {
	if err := controllers.RegisterValidators(); err != nil {
		return err
	}
	limited := limiter.Middleware()
	staff := []gin.HandlerFunc{middleware.RequireAuth(), middleware.StaffOnly()}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	r.GET("/", ctrl.Home.Index)
	r.POST("/contact", limited, ctrl.Home.Contact)

	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", ctrl.Product.ListProducts)
		productRoutes.GET("/categories", ctrl.Product.ListCategories)
		productRoutes.GET("/:id", ctrl.Product.GetProduct)
		productRoutes.GET("/:id/:slug", ctrl.Product.GetProduct)
		productRoutes.POST("", append(staff, ctrl.Product.CreateProduct)...)
		productRoutes.PUT("/:id", append(staff, ctrl.Product.UpdateProduct)...)
		productRoutes.POST("/:id/reviews", middleware.RequireAuth(), ctrl.Product.AddReview)
	}

	cartRoutes := r.Group("/cart")
	{
		cartRoutes.GET("", ctrl.Cart.ViewCart)
		cartRoutes.POST("/add/:id", ctrl.Cart.AddToCart)
		cartRoutes.POST("/adjust/:id", ctrl.Cart.AdjustCart)
		cartRoutes.POST("/remove/:id", ctrl.Cart.RemoveFromCart)
	}

	checkoutRoutes := r.Group("/checkout")
	{
		checkoutRoutes.GET("", ctrl.Checkout.Checkout)
		checkoutRoutes.POST("", ctrl.Checkout.PlaceOrder)
		checkoutRoutes.POST("/cache_checkout_data", ctrl.Checkout.CacheCheckoutData)
		checkoutRoutes.GET("/success/:order_number", ctrl.Checkout.Success)
		checkoutRoutes.POST("/wh", ctrl.Checkout.Webhook)
	}

	profileRoutes := r.Group("/profile", middleware.RequireAuth())
	{
		profileRoutes.GET("", ctrl.Profile.GetProfile)
		profileRoutes.PUT("", ctrl.Profile.UpdateProfile)
		profileRoutes.GET("/orders/:order_number", ctrl.Profile.GetOrder)
		profileRoutes.GET("/wishlist", ctrl.Profile.Wishlist)
		profileRoutes.POST("/wishlist/:product_id", ctrl.Profile.ToggleWishlist)
	}

	blogRoutes := r.Group("/blog")
	{
		blogRoutes.GET("", ctrl.Blog.ListPosts)
		blogRoutes.GET("/:slug", ctrl.Blog.GetPost)
		blogRoutes.POST("", append(staff, ctrl.Blog.CreatePost)...)
		blogRoutes.PUT("/:slug", append(staff, ctrl.Blog.UpdatePost)...)
		blogRoutes.POST("/:slug/comments", limited, ctrl.Blog.AddComment)
	}

	newsletterRoutes := r.Group("/newsletter")
	{
		newsletterRoutes.POST("/subscribe", limited, ctrl.Newsletter.Subscribe)
		newsletterRoutes.POST("/unsubscribe", limited, ctrl.Newsletter.Unsubscribe)
		newsletterRoutes.GET("/ping", ctrl.Newsletter.Ping)
	}

	r.POST("/media/presign", append(staff, ctrl.Media.Presign)...)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return nil
}
