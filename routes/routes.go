package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/config"
	"laundromat-backend/controllers"
	"laundromat-backend/metrics"
	"laundromat-backend/services"
	"laundromat-backend/store"
	"laundromat-backend/utils"
)

// Dependencies is everything the router hands out to controllers.
type Dependencies struct {
	Store          store.Store
	Service        *services.LaundryService
	Reminders      *services.ReminderService // nil when SMS is off
	Sessions       *utils.SessionManager
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Log            *logrus.Entry
	CORSOrigins    []string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
		}))
	}

	r.Use(config.PerformanceLogger(deps.Log, deps.Metrics))

	authController := controllers.NewAuthController(deps.Sessions, deps.Metrics, deps.Log)
	customerController := controllers.NewCustomerController(deps.Service, deps.Log)
	laundryController := controllers.NewLaundryController(deps.Service, deps.Log)
	reminderController := controllers.NewReminderController(deps.Reminders, deps.Log)

	r.POST("/login", authController.Login)
	r.GET("/logout", authController.Logout)
	r.GET("/protected", utils.AuthMiddleware(deps.Sessions, deps.Log), authController.Protected)

	r.GET("/healthz", controllers.Health(deps.Store))
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(deps.Sessions, deps.Log))
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", customerController.CreateCustomer)
			customers.GET("", customerController.GetCustomers)
			customers.GET("/search", customerController.SearchCustomers)
			customers.POST("/:customerId/laundry", laundryController.CreateLaundry)
			customers.GET("/:customerId/laundry", laundryController.GetCustomerLaundry)
		}

		// Laundry routes
		laundries := api.Group("/laundries")
		{
			laundries.GET("", laundryController.GetLaundries)
			laundries.GET("/export", laundryController.ExportLaundries)
		}

		// Reminder routes
		reminders := api.Group("/reminders")
		{
			reminders.GET("", reminderController.GetReminders)
			reminders.POST("/run", reminderController.RunReminders)
		}

		// Dashboard routes
		api.GET("/dashboard", laundryController.GetDashboardOverview)
	}

	return r
}
