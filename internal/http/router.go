package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bootcamper/internal/domain"
	h "bootcamper/internal/http/handlers"
	"bootcamper/internal/http/middleware"
	"bootcamper/internal/token"
)

// Deps carries everything the router mounts. Nothing here is global; main
// builds one of these and hands it over.
type Deps struct {
	Log         *zap.Logger
	Tokens      *token.Manager
	Users       middleware.PrincipalLoader
	CORSOrigins []string

	System    h.SystemHandler
	Auth      *h.AuthHandler
	Bootcamps *h.BootcampHandler
	Courses   *h.CourseHandler
	Reviews   *h.ReviewHandler
	Accounts  *h.UserHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(d.Log), gin.Recovery(), middleware.CORS(d.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		d.Log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	protect := middleware.Authenticate(d.Tokens, d.Users)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	publishers := middleware.RequireRoles(domain.RolePublisher, domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.GET("/health", d.System.Health)
		api.GET("/ready", d.System.Ready)

		auth := api.Group("/auth")
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/logout", d.Auth.Logout)
		auth.GET("/me", protect, d.Auth.Me)
		auth.PUT("/updatedetails", protect, d.Auth.UpdateDetails)
		auth.PUT("/updatepassword", protect, d.Auth.UpdatePassword)
		auth.POST("/forgotpassword", d.Auth.ForgotPassword)
		auth.PUT("/resetpassword/:resettoken", d.Auth.ResetPassword)

		bootcamps := api.Group("/bootcamps")
		bootcamps.GET("", d.Bootcamps.List)
		bootcamps.GET("/:id", d.Bootcamps.Get)
		bootcamps.GET("/radius/:zipcode/:distance", d.Bootcamps.WithinRadius)
		bootcamps.POST("", protect, publishers, d.Bootcamps.Create)
		bootcamps.PUT("/:id", protect, d.Bootcamps.Update)
		bootcamps.DELETE("/:id", protect, d.Bootcamps.Delete)
		bootcamps.PUT("/:id/photo", protect, publishers, d.Bootcamps.UploadPhoto)
		bootcamps.GET("/:id/report", d.Bootcamps.Report)

		// Nested resources
		bootcamps.GET("/:id/courses", d.Courses.ListByBootcamp)
		bootcamps.POST("/:id/courses", protect, d.Courses.Create)
		bootcamps.GET("/:id/reviews", d.Reviews.ListByBootcamp)
		bootcamps.POST("/:id/reviews", protect, d.Reviews.Create)

		courses := api.Group("/courses")
		courses.GET("", d.Courses.List)
		courses.GET("/:id", d.Courses.Get)
		courses.PUT("/:id", protect, d.Courses.Update)
		courses.DELETE("/:id", protect, d.Courses.Delete)

		reviews := api.Group("/reviews")
		reviews.GET("", d.Reviews.List)
		reviews.GET("/:id", d.Reviews.Get)
		reviews.PUT("/:id", protect, d.Reviews.Update)
		reviews.DELETE("/:id", protect, d.Reviews.Delete)

		users := api.Group("/users", protect, adminOnly)
		users.GET("", d.Accounts.List)
		users.GET("/:id", d.Accounts.Get)
		users.POST("", d.Accounts.Create)
		users.PUT("/:id", d.Accounts.Update)
		users.DELETE("/:id", d.Accounts.Delete)
	}

	return r
}
