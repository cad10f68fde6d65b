package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/coursestore/internal/app/controllers"
	appEvents "github.com/yigit/coursestore/internal/app/events"
	appJobs "github.com/yigit/coursestore/internal/app/jobs"
	appMigrations "github.com/yigit/coursestore/internal/app/migrations"
	appRepos "github.com/yigit/coursestore/internal/app/repositories"
	appRoutes "github.com/yigit/coursestore/internal/app/routes"
	appServices "github.com/yigit/coursestore/internal/app/services"
	"github.com/yigit/coursestore/internal/config"
	"github.com/yigit/coursestore/internal/db"
	appMiddleware "github.com/yigit/coursestore/internal/middleware"
	pkgAuth "github.com/yigit/coursestore/internal/pkg/auth"
	"github.com/yigit/coursestore/internal/pkg/cache"
	"github.com/yigit/coursestore/internal/pkg/email"
	"github.com/yigit/coursestore/internal/pkg/helpers"
	"github.com/yigit/coursestore/internal/pkg/logger"
	"github.com/yigit/coursestore/internal/pkg/payment"
	"github.com/yigit/coursestore/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database  *db.PostgresDB
	Repos     *appRepos.Repositories
	Redis     *redis.Client
	Publisher appEvents.Publisher
	Jobs      *appJobs.Manager

	JWTService       *pkgAuth.JWTService
	AuthService      *appServices.AuthService
	CatalogService   *appServices.CatalogService
	CartService      *appServices.CartService
	CheckoutService  *appServices.CheckoutService
	DashboardService *appServices.DashboardService
	RoleService      *appServices.RoleService
	AdminService     *appServices.AdminService
	ContactService   *appServices.ContactService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes repositories, infrastructure clients,
// services, controllers and scheduled jobs.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)
	repos := deps.Repos

	if err := seed.CreateDefaultData(ctx, seed.Stores{
		Tx:       database,
		Users:    repos.UserRepository,
		Profiles: repos.ProfileRepository,
		Roles:    repos.RoleRepository,
		Courses:  repos.CourseRepository,
	}, seed.Options{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		AdminName:     cfg.Seed.AdminName,
		DemoCourses:   cfg.Seed.DemoCourses,
	}, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	catalogCache, err := deps.setupCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps.setupPublisher(cfg)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.BaseURL,
	}, logger.WithField("component", "email"))

	gateway := payment.NewSimulatedGateway(
		helpers.ParseDuration(cfg.Payment.ProcessingDelay, time.Second),
		cfg.Payment.IDPrefix,
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(
		repos.UserRepository,
		repos.ProfileRepository,
		repos.TokenRepository,
		database,
		deps.JWTService,
		mailer,
		lgr,
	)
	deps.CatalogService = appServices.NewCatalogService(repos.CourseRepository, catalogCache, lgr)
	deps.CartService = appServices.NewCartService(repos.CartRepository, repos.CourseRepository, lgr)
	deps.CheckoutService = appServices.NewCheckoutService(appServices.CheckoutDeps{
		Tx:       database,
		Carts:    repos.CartRepository,
		Orders:   repos.OrderRepository,
		Attempts: repos.CheckoutAttemptRepository,
		Profiles: repos.ProfileRepository,
		Outbox:   repos.OutboxRepository,
		Gateway:  gateway,
		Mailer:   mailer,
	}, helpers.ParseDuration(cfg.Jobs.StaleCheckoutAge, 15*time.Minute), lgr)
	deps.DashboardService = appServices.NewDashboardService(repos.ProfileRepository, repos.OrderRepository, lgr)
	deps.RoleService = appServices.NewRoleService(repos.RoleRepository)
	deps.AdminService = appServices.NewAdminService(
		database,
		repos.OrderRepository,
		repos.ProfileRepository,
		repos.OutboxRepository,
		gateway,
		lgr,
	)
	deps.ContactService = appServices.NewContactService(repos.OutboxRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.RoleService)

	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.AuthService, lgr),
		Course:   appControllers.NewCourseController(deps.CatalogService, lgr),
		Cart:     appControllers.NewCartController(deps.CartService, lgr),
		Checkout: appControllers.NewCheckoutController(deps.CheckoutService, lgr),
		Me:       appControllers.NewMeController(deps.DashboardService, deps.RoleService, lgr),
		Admin:    appControllers.NewAdminController(deps.AdminService, lgr),
		Contact:  appControllers.NewContactController(deps.ContactService, lgr),
		Health:   appControllers.NewHealthController(deps.healthChecks()),
	}

	relay := appEvents.NewRelay(repos.OutboxRepository, database, deps.Publisher, lgr)
	deps.Jobs = appJobs.NewManager(lgr, time.Minute)
	if err := deps.Jobs.Register(appJobs.Schedules{
		OutboxRelay:   cfg.Jobs.OutboxRelaySchedule,
		StaleCheckout: cfg.Jobs.StaleCheckoutSweep,
		TokenCleanup:  cfg.Jobs.TokenCleanupSchedule,
	}, relay, deps.CheckoutService, deps.AuthService); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	return deps, nil
}

// setupCache connects to Redis when an address is configured. Without one
// the catalog is always read from the database.
func (d *Dependencies) setupCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.Redis.Addr == "" {
		d.Logger.Info().Msg("Redis not configured, catalog cache disabled")
		return cache.NoopCache{}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		d.Logger.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}
	d.Redis = client
	d.Logger.Info().Str("addr", cfg.Redis.Addr).Msg("Redis catalog cache enabled")
	return cache.NewRedisCache(client, "coursestore", helpers.ParseDuration(cfg.Redis.CatalogTTL, 10*time.Minute)), nil
}

// setupPublisher publishes outbox events to Kafka when brokers are
// configured and logs them otherwise.
func (d *Dependencies) setupPublisher(cfg *config.Config) {
	if len(cfg.Kafka.Brokers) == 0 {
		d.Logger.Info().Msg("Kafka not configured, outbox events will be logged")
		d.Publisher = appEvents.NewLogPublisher(d.Logger)
		return
	}
	d.Logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topicPrefix", cfg.Kafka.TopicPrefix).Msg("Publishing outbox events to Kafka")
	d.Publisher = appEvents.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
}

func (d *Dependencies) healthChecks() map[string]appControllers.HealthCheck {
	checks := map[string]appControllers.HealthCheck{
		"database": func(ctx context.Context) error { return d.Database.Pool.Ping(ctx) },
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close releases the event publisher and the Redis client. The database
// pool is owned by the caller of SetupDatabase.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	// request bodies are typed records; unknown fields are a client error
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
