package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sahuajaykumar2004-dot/EP/domain"
	"github.com/sahuajaykumar2004-dot/EP/internal/config"
	"github.com/sahuajaykumar2004-dot/EP/internal/infrastructure/auth"
	"github.com/sahuajaykumar2004-dot/EP/internal/infrastructure/database"
	"github.com/sahuajaykumar2004-dot/EP/internal/infrastructure/notifications"
	"github.com/sahuajaykumar2004-dot/EP/internal/infrastructure/repositories"
	"github.com/sahuajaykumar2004-dot/EP/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	UserRepo         domain.UserRepository
	RegistrationRepo domain.RegistrationRepository
	VerificationRepo domain.VerificationRepository
	SessionRepo      domain.SessionRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	RateLimiter     domain.RateLimiter
	OTPSvc          domain.OTPService
	RegistrationSvc domain.RegistrationService
	RecoverySvc     domain.RecoveryService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		return nil, err
	}

	cas, err := auth.NewCasbinService(c.DB, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	c.Casbin = cas

	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.RegistrationRepo = repositories.NewRegistrationRepository(c.DB)
	c.VerificationRepo = repositories.NewVerificationRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.SessionTTL)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.NotificationSvc = notifications.NewService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		notifications.SMTPConfig{
			Host:     c.Config.SMTPHost,
			Port:     c.Config.SMTPPort,
			Username: c.Config.SMTPUsername,
			Password: c.Config.SMTPPassword,
			From:     c.Config.SMTPFrom,
		},
	)

	c.RateLimiter = services.NewRateLimiter(c.RedisClient, c.Config.Policies())
	c.OTPSvc = services.NewOTPService(c.VerificationRepo, c.NotificationSvc, services.OTPConfig{
		Length: c.Config.OTPLength,
		TTL:    c.Config.OTPTTL,
	})

	c.RegistrationSvc = services.NewRegistrationService(
		c.RegistrationRepo,
		c.UserRepo,
		c.VerificationRepo,
		c.OTPSvc,
		c.PasswordSvc,
		c.RateLimiter,
		services.RegistrationConfig{StaleAfter: c.Config.StaleAfter},
	)
	c.RecoverySvc = services.NewRecoveryService(
		c.UserRepo,
		c.SessionRepo,
		c.OTPSvc,
		c.PasswordSvc,
		c.RateLimiter,
	)
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Config.SessionTTL,
		c.Config.AccessTTL,
	)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
