package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	authMW *AuthMiddleware,
	accountH *AccountHandler,
	tokenH *TokenHandler,
	courseH *CourseHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	users := r.Group("/api/users")
	users.POST("/register/", accountH.Register)
	users.POST("/login/", accountH.Login)
	users.POST("/logout/", authMW.Require(), accountH.Logout)
	users.GET("/profile/", authMW.Require(), accountH.Profile)
	users.PUT("/profile/update/", authMW.Require(), accountH.UpdateProfile)
	users.PATCH("/profile/update/", authMW.Require(), accountH.UpdateProfile)
	users.GET("/auth-status/", authMW.Optional(), accountH.AuthStatus)

	tokens := r.Group("/o/token")
	tokens.POST("/", tokenH.ObtainPair)
	tokens.POST("/refresh/", tokenH.RefreshPair)

	courses := r.Group("/api/courses", authMW.Require())
	courses.GET("/", courseH.ListCourses)
	courses.POST("/", courseH.CreateCourse)
	courses.GET("/completedcourses/", courseH.ListCompleted)
	courses.POST("/completedcourses/", courseH.CreateCompleted)
	courses.GET("/completedcourses/:id/", courseH.GetCompleted)
	courses.DELETE("/completedcourses/:id/", courseH.DeleteCompleted)
	courses.GET("/:id/", courseH.GetCourse)
	courses.PUT("/:id/", courseH.UpdateCourse)
	courses.PATCH("/:id/", courseH.UpdateCourse)
	courses.DELETE("/:id/", courseH.DeleteCourse)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
