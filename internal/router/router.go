package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tidelog-dev/tidelog/internal/handlers"
	"github.com/tidelog-dev/tidelog/internal/middleware"
	"github.com/tidelog-dev/tidelog/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:user_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		// Registration is the one unauthenticated users route
		api.POST("/users", handlers.CreateUser)

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("", handlers.ListUsers)
			users.GET("/:id", handlers.GetUser)
			users.PATCH("/:id", handlers.UpdateUser)
			users.DELETE("/:id", handlers.DeleteUser)

			users.GET("/:id/pet-selection", handlers.GetPetSelection)
			users.PATCH("/:id/pet-selection", handlers.UpdatePetSelection)
		}

		grapes := api.Group("/grapes", middleware.AuthMiddleware())
		{
			grapes.GET("", handlers.ListAllGrapes)
			grapes.POST("", handlers.CreateGrapesEntry)
			grapes.GET("/user/:userId", handlers.ListGrapesByUser)
			grapes.GET("/user/:userId/latest", handlers.GetLatestGrapes)
			grapes.GET("/user/:userId/range", handlers.ListGrapesByRange)
			grapes.GET("/:id", handlers.GetGrapesEntry)
			grapes.PATCH("/:id", handlers.UpdateGrapesEntry)
			grapes.DELETE("/:id", handlers.DeleteGrapesEntry)
		}

		cogtri := api.Group("/cogtri", middleware.AuthMiddleware())
		{
			cogtri.GET("", handlers.ListAllCogTri)
			cogtri.POST("", handlers.CreateCogTriEntry)
			cogtri.GET("/user/:userId", handlers.ListCogTriByUser)
			cogtri.GET("/user/:userId/latest", handlers.GetLatestCogTri)
			cogtri.GET("/user/:userId/range", handlers.ListCogTriByRange)
			cogtri.GET("/:id", handlers.GetCogTriEntry)
			cogtri.PATCH("/:id", handlers.UpdateCogTriEntry)
			cogtri.DELETE("/:id", handlers.DeleteCogTriEntry)
		}

		api.GET("/dashboard/:userId", middleware.AuthMiddleware(), handlers.GetDashboard)
	}

	return r
}
