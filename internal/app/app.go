package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahuajaykumar2004-dot/EP/internal/config"
	httpx "github.com/sahuajaykumar2004-dot/EP/internal/http"
	"github.com/sahuajaykumar2004-dot/EP/internal/http/handlers"
	"github.com/sahuajaykumar2004-dot/EP/internal/http/middleware"
)

// Run wires the container, seeds the default policy set, starts the
// stale-registration reclaimer and serves HTTP until the process ends.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	regH := handlers.NewRegistrationHandlers(c.RegistrationSvc)
	authH := handlers.NewAuthHandlers(c.AuthSvc)
	pwH := handlers.NewPasswordHandlers(c.RecoverySvc, c.AuthSvc)
	polH := handlers.NewPolicyHandlers(c.Casbin.E)

	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(regH, authH, pwH, polH, jwtMW, casbinMW)

	if err := c.PolicySvc.SeedDefaults(); err != nil {
		return err
	}
	startReclaimer(c, cfg.ReclaimInterval)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// startReclaimer periodically deletes staged registrations that were
// never completed, freeing their email and phone for a fresh attempt.
func startReclaimer(c *Container, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, err := c.RegistrationSvc.ReclaimStale(ctx); err != nil {
				log.Printf("reclaimer: %v", err)
			}
			cancel()
		}
	}()
}
