package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/container"
	"github.com/joshua-takyi/rendez/internal/handlers"
	"github.com/joshua-takyi/rendez/internal/middleware"
	"github.com/joshua-takyi/rendez/internal/ws"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":            "OK",
			"service":           "rendez-api",
			"online_users":      len(c.Hub.OnlineUsers()),
			"total_connections": c.Hub.ConnectionCount(),
		})
	})
	r.GET("/ws/:user_id", ws.ServeWS(c.Hub, c.Tokens, c.Logger))

	auth := middleware.AuthMiddleware(c.Tokens, c.Logger)
	admin := middleware.AdminOnly()
	limit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(c.RateLimiter, scope, c.Logger)
	}

	v1 := r.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", limit("register"), handlers.Register(c.AuthService))
		authRoutes.POST("/login", limit("login"), handlers.Login(c.AuthService))
		authRoutes.POST("/forgot-password", limit("forgot-password"), handlers.ForgotPassword(c.AuthService))
		authRoutes.POST("/reset-password", limit("reset-password"), handlers.ResetPassword(c.AuthService))
		authRoutes.PUT("/change-password/:id", auth, handlers.ChangePassword(c.AuthService))
		authRoutes.DELETE("/delete-account/:id", auth, handlers.DeleteAccount(c.AuthService))
	}

	userRoutes := v1.Group("/users", auth)
	{
		userRoutes.GET("/search/by-name", handlers.SearchUsers(c.UserService))
		userRoutes.GET("/:id", handlers.GetUser(c.UserService))
		userRoutes.PUT("/:id", handlers.UpdateUser(c.UserService))
		userRoutes.GET("/:id/potential-matches", handlers.PotentialMatches(c.UserService))
		userRoutes.PUT("/:id/interests", handlers.SetUserInterests(c.UserService))
	}

	swipeRoutes := v1.Group("/swipes", auth)
	{
		swipeRoutes.POST("", handlers.CreateSwipe(c.SwipeService))
		swipeRoutes.GET("/user/:id", handlers.ListUserSwipes(c.SwipeService))
		swipeRoutes.GET("/likes/:id", handlers.ListLikes(c.SwipeService))
		swipeRoutes.GET("/received-likes/:id", handlers.ListReceivedLikes(c.SwipeService))
		swipeRoutes.DELETE("/:id", handlers.DeleteSwipe(c.SwipeService))
	}

	matchRoutes := v1.Group("/matches", auth)
	{
		matchRoutes.GET("/user/:id", handlers.ListUserMatches(c.MatchService))
		matchRoutes.GET("/:id", handlers.GetMatch(c.MatchService))
		matchRoutes.DELETE("/:id", handlers.Unmatch(c.MatchService))
	}

	messageRoutes := v1.Group("/messages", auth)
	{
		messageRoutes.POST("", handlers.SendMessage(c.MessageService))
		messageRoutes.GET("/match/:id", handlers.ListMatchMessages(c.MessageService, c.MatchService))
		messageRoutes.GET("/unread/:id", handlers.UnreadCount(c.MessageService))
		messageRoutes.GET("/between/:id/:other", handlers.ListMessagesBetween(c.MessageService))
		messageRoutes.GET("/:id", handlers.GetMessage(c.MessageService))
		messageRoutes.PATCH("/:id/read", handlers.MarkMessageRead(c.MessageService))
		messageRoutes.POST("/:id/delivered", handlers.MarkMessageDelivered(c.MessageService))
		messageRoutes.GET("/:id/conversations", handlers.ListConversations(c.MessageService))
	}

	photoRoutes := v1.Group("/photos", auth)
	{
		photoRoutes.POST("/upload", handlers.UploadPhoto(c.PhotoService))
		photoRoutes.POST("", handlers.CreatePhoto(c.PhotoService))
		photoRoutes.GET("/user/:id", handlers.ListUserPhotos(c.PhotoService))
		photoRoutes.PUT("/user/:id/reorder", handlers.ReorderPhotos(c.PhotoService))
		photoRoutes.GET("/:id", handlers.GetPhoto(c.PhotoService))
		photoRoutes.PATCH("/:id", handlers.UpdatePhoto(c.PhotoService))
		photoRoutes.DELETE("/:id", handlers.DeletePhoto(c.PhotoService))
	}

	blockRoutes := v1.Group("/blocks", auth)
	{
		blockRoutes.POST("", handlers.BlockUser(c.BlockService))
		blockRoutes.GET("/user/:id", handlers.ListBlocked(c.BlockService))
		blockRoutes.POST("/reports", handlers.ReportUser(c.BlockService))
		blockRoutes.GET("/reports", admin, handlers.ListReports(c.BlockService))
		blockRoutes.PATCH("/reports/:id/status", admin, handlers.UpdateReportStatus(c.BlockService))
		blockRoutes.DELETE("/:id/:blocked", handlers.UnblockUser(c.BlockService))
	}

	interestRoutes := v1.Group("/interests", auth)
	{
		interestRoutes.POST("", admin, handlers.CreateInterest(c.InterestService))
		interestRoutes.GET("", handlers.ListInterests(c.InterestService))
		interestRoutes.POST("/user", handlers.AddUserInterest(c.InterestService))
		interestRoutes.GET("/user/:id", handlers.ListUserInterests(c.InterestService))
		interestRoutes.DELETE("/user/:id/:interest_id", handlers.RemoveUserInterest(c.InterestService))
		interestRoutes.GET("/common/:id/:other", handlers.CommonInterests(c.InterestService))
		interestRoutes.GET("/:id", handlers.GetInterest(c.InterestService))
	}

	v1.POST("/admin/login", limit("admin-login"), handlers.AdminLogin(c.AdminService))
	adminRoutes := v1.Group("/admin", auth, admin)
	{
		adminRoutes.GET("/stats", handlers.AdminStats(c.AdminService))
		adminRoutes.GET("/users", handlers.AdminListUsers(c.AdminService))
		adminRoutes.DELETE("/users/:id", handlers.AdminDeleteUser(c.AdminService))
		adminRoutes.PUT("/users/:id/verify", handlers.AdminVerifyUser(c.AdminService))
		adminRoutes.PUT("/users/:id/ban", handlers.AdminBanUser(c.AdminService))
		adminRoutes.GET("/matches", handlers.AdminListMatches(c.AdminService))
		adminRoutes.DELETE("/matches/:id", handlers.AdminDeleteMatch(c.AdminService))
		adminRoutes.GET("/analytics/users-growth", handlers.AdminUsersGrowth(c.AdminService))
		adminRoutes.GET("/analytics/match-rate", handlers.AdminMatchRate(c.AdminService))
	}

	return r
}
