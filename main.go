package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/controllers"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/database"
	apperrors "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/errors"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/events"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/payments"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/providers"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/routes"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/sender"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/session"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger.Initialize(os.Getenv("ENV"))
	defer func() { _ = logger.Log.Sync() }()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// AWS is optional in development; every AWS-backed feature checks for it.
	var awsCfg *sdkaws.Config
	if loaded, err := aws_pkg.LoadAWSConfig(ctx); err != nil {
		logger.Log.Warn("AWS config unavailable, AWS features disabled", zap.Error(err))
	} else {
		awsCfg = &loaded
	}

	if awsCfg != nil && cfg.CloudWatchEnabled {
		cwLogs, err := aws_pkg.NewCloudWatchLogsClient(ctx, *awsCfg, cfg.CloudWatchLogGroup, cfg.ServiceName, true)
		if err != nil {
			logger.Log.Warn("CloudWatch Logs unavailable", zap.Error(err))
		} else {
			logger.InitializeWithWriter(cfg.Env, cwLogs)
		}
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- 1. Storage ---

	db, err := database.ConnectPostgres(cfg.DSN(), logger.Log, database.DefaultOptions(), models.All()...)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Log.Error("Failed to close database", zap.Error(err))
		}
	}()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if cfg.SessionBackend == "redis" {
				logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var store session.Store
	switch cfg.SessionBackend {
	case "redis":
		store = session.NewRedisStore(redisClient)
	case "dynamodb":
		if awsCfg == nil {
			logger.Log.Fatal("SESSION_BACKEND=dynamodb needs AWS configuration")
		}
		store = session.NewDynamoStore(aws_pkg.NewDynamoDBClient(*awsCfg), cfg.SessionTable)
	default:
		store = session.NewMemoryStore()
	}
	logger.Log.Info("Session store ready", zap.String("backend", cfg.SessionBackend))

	// --- 2. Dependency Injection ---

	var metrics *aws_pkg.MetricsClient
	if awsCfg != nil {
		metrics = aws_pkg.NewMetricsClient(*awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
	}

	var email sender.EmailSender = sender.LogSender{}
	if cfg.SMTPHost != "" {
		smtpSender, err := sender.NewSMTPSender(sender.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			logger.Log.Fatal("Invalid SMTP configuration", zap.Error(err))
		}
		email = smtpSender
	}

	contactEmail := cfg.StaffEmail
	if contactEmail == "" {
		contactEmail = cfg.SMTPFrom
	}
	eventHandler := events.NewHandler(email, metrics, contactEmail)

	var publisher events.Publisher = events.NewLocalPublisher(eventHandler)
	if awsCfg != nil && cfg.OrderEventsTopicARN != "" {
		publisher = events.NewSNSPublisher(aws_pkg.NewSNSClient(*awsCfg), cfg.OrderEventsTopicARN)
	}

	var cache services.ProductCache
	if redisClient != nil {
		cache = services.NewRedisProductCache(redisClient, cfg.CatalogCacheTTL)
	}

	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)
	blogRepo := repository.NewGormBlogRepository(db)
	homeRepo := repository.NewGormHomeRepository(db)

	policy := cart.DeliveryPolicy{
		FreeThreshold: cfg.FreeDeliveryThreshold,
		Percentage:    cfg.StandardDeliveryPercentage,
	}

	catalogService := services.NewCatalogService(productRepo, cache, metrics)
	cartService := services.NewCartService(store, cfg.SessionTTL, catalogService, policy, metrics)
	checkoutService := services.NewCheckoutService(services.CheckoutConfig{
		Currency:        cfg.StripeCurrency,
		StripePublicKey: cfg.StripePublicKey,
		Policy:          policy,
		SessionTTL:      cfg.SessionTTL,
		WebhookAttempts: 5,
		WebhookWait:     time.Second,
	}, store, catalogService, productRepo, orderRepo, profileRepo,
		payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil),
		publisher, metrics)
	profileService := services.NewProfileService(profileRepo, orderRepo, catalogService)
	blogService := services.NewBlogService(blogRepo, metrics)
	homeService := services.NewHomeService(homeRepo, catalogService, email, cfg.StaffEmail)
	newsletterService := services.NewNewsletterService(
		providers.NewMailchimpProvider(cfg.MailchimpAPIKey, cfg.MailchimpDataCenter, cfg.MailchimpListID),
		metrics,
	)

	var presigner controllers.Presigner
	if awsCfg != nil && cfg.MediaBucket != "" {
		presigner = aws_pkg.NewPresigner(*awsCfg, cfg.MediaBucket, 15*time.Minute)
	}

	ctrl := routes.Controllers{
		Product:    controllers.NewProductController(catalogService),
		Cart:       controllers.NewCartController(cartService),
		Checkout:   controllers.NewCheckoutController(checkoutService),
		Profile:    controllers.NewProfileController(profileService),
		Blog:       controllers.NewBlogController(blogService),
		Home:       controllers.NewHomeController(homeService),
		Newsletter: controllers.NewNewsletterController(newsletterService),
		Media:      controllers.NewMediaController(presigner),
	}

	// --- 3. HTTP Server & Middleware ---

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	if metrics.IsEnabled() {
		r.Use(middleware.Metrics(metrics, cfg.ServiceName))
	}
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(session.Middleware(session.CookieOptions{
		Name:   cfg.SessionCookie,
		TTL:    cfg.SessionTTL,
		Secure: cfg.SessionSecure,
	}))
	r.Use(middleware.Identity(cfg.JWTSecret))
	r.Use(apperrors.ErrorMiddleware())

	limiter := middleware.NewRateLimiter(20, 5, 10*time.Minute)
	if err := routes.RegisterRoutes(r, ctrl, limiter); err != nil {
		logger.Log.Fatal("Failed to register routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- 4. Run until signalled ---

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Storefront starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if awsCfg != nil && cfg.OrderEventsQueueURL != "" {
		consumer := aws_pkg.NewSQSConsumer(*awsCfg, cfg.OrderEventsQueueURL, logger.Log)
		g.Go(func() error {
			return consumer.StartPolling(gctx, eventHandler.Handle)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down storefront...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Storefront stopped with error", zap.Error(err))
		return
	}
	logger.Log.Info("Storefront stopped gracefully")
}
