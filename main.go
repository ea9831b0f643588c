package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ChurchWeb/controllers"
	"github.com/ChurchWeb/initializers"
	"github.com/ChurchWeb/middlewares"
	"github.com/ChurchWeb/services"
)

func init() {
	initializers.LoadEnv()
	initializers.InitFirebase()
	services.InitDocumentStore()
	services.InitCheckoutGateway()
	services.InitCheckoutRegistry(context.Background())
	services.InitPushNotificationService()
	services.InitEmailService()
}

func main() {
	router := gin.Default()

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)

	// giving
	router.GET("/donations/options", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.GetDonationOptions)
	router.POST("/donations/checkout", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.CreateDonationCheckout)
	router.POST("/donations/checkout/:attempt_id/success", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.CompleteDonationCheckout)
	router.POST("/donations/checkout/:attempt_id/dismiss", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.DismissDonationCheckout)
	router.GET("/donations/confirmation", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.GetDonationConfirmation)

	// prayer and contact forms
	router.POST("/prayer-requests", middlewares.RateLimitMiddleware(1, 2, getKey), controllers.CreatePrayerRequest)
	router.POST("/contact", middlewares.RateLimitMiddleware(1, 2, getKey), controllers.CreatePrayerRequest)

	// content
	content := router.Group("/")
	content.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		content.GET("/events", controllers.GetEvents)
		content.GET("/blogs", controllers.GetBlogPosts)
		content.GET("/blogs/:slug", controllers.GetBlogPost)
		content.GET("/gallery", controllers.GetGalleryItems)
		content.GET("/sermons", controllers.GetSermons)
	}

	router.POST("/admin/login", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.AdminLogin)

	//admin only routes
	admin := router.Group("/admin")
	admin.Use(middlewares.CheckAuth)
	admin.Use(middlewares.CheckAdmin)
	admin.Use(middlewares.RateLimitMiddleware(5, 5, getKey))
	{
		admin.POST("/events", controllers.CreateEvent)
		admin.POST("/blogs", controllers.CreateBlogPost)
		admin.POST("/gallery", controllers.CreateGalleryItem)
		admin.POST("/sermons", controllers.CreateSermon)

		admin.POST("/push-subscriptions", controllers.SubscribeStaffDevice)
		admin.DELETE("/push-subscriptions", controllers.UnsubscribeStaffDevice)

		admin.POST("/test-email", controllers.TestEmailService)
	}

	if err := router.Run(); err != nil {
		log.Fatal(err)
	}
}
