package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/sahuajaykumar2004-dot/EP/internal/http/handlers"
	"github.com/sahuajaykumar2004-dot/EP/internal/http/middleware"
)

func BuildRouter(
	rh *handlers.RegistrationHandlers,
	ah *handlers.AuthHandlers,
	pwh *handlers.PasswordHandlers,
	ph *handlers.PolicyHandlers,
	jwtmw *middleware.AuthMW,
	cb *middleware.CasbinMW,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	users := r.Group("/api/users")
	users.POST("/register", rh.Register)
	users.POST("/verify/email", rh.VerifyEmail)
	users.POST("/verify/phone", rh.VerifyPhone)
	users.POST("/resend/email", rh.ResendEmail)
	users.POST("/resend/phone", rh.ResendPhone)
	users.POST("/login", ah.Login)
	users.POST("/token/refresh", ah.Refresh)
	users.POST("/password/reset", pwh.RequestReset)
	users.POST("/password/reset/confirm", pwh.ConfirmReset)

	authed := r.Group("/api/users").Use(jwtmw.WithJWT())
	authed.GET("/me", ah.Me)
	authed.POST("/logout", ah.Logout)
	authed.POST("/password/change", pwh.Change)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/users", ah.Users)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
