package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	authrepo "github.com/VISCOUS-ASH/ElectroStore/internal/auth/repository"
	authservice "github.com/VISCOUS-ASH/ElectroStore/internal/auth/service"
	cartcache "github.com/VISCOUS-ASH/ElectroStore/internal/cart/cache"
	cartrepo "github.com/VISCOUS-ASH/ElectroStore/internal/cart/repository"
	cartservice "github.com/VISCOUS-ASH/ElectroStore/internal/cart/service"
	catalogrepo "github.com/VISCOUS-ASH/ElectroStore/internal/catalog/repository"
	checkoutrepo "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/repository"
	checkoutservice "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/service"
	"github.com/VISCOUS-ASH/ElectroStore/internal/config"
	httpapi "github.com/VISCOUS-ASH/ElectroStore/internal/http"
	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/consumer"
	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/email"
	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/toast"
	orderclient "github.com/VISCOUS-ASH/ElectroStore/internal/order/client"
	orderpublisher "github.com/VISCOUS-ASH/ElectroStore/internal/order/publisher"
	orderrepo "github.com/VISCOUS-ASH/ElectroStore/internal/order/repository"
	orderservice "github.com/VISCOUS-ASH/ElectroStore/internal/order/service"
	"github.com/VISCOUS-ASH/ElectroStore/pkg/mongodb"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo holds carts, orders and users.
	mongoDB, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		if errDisc := mongoDB.Client().Disconnect(context.Background()); errDisc != nil {
			log.Printf("mongo disconnect error: %v", errDisc)
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	cartRepository := cartrepo.NewMongoRepository(mongoDB)
	cartCache := cartcache.NewRedisCache(redisClient, cfg.CartCacheTTL)
	cartService := cartservice.NewCartService(cartRepository, cartCache)

	// Checkout sessions live in postgres behind a unique idempotency key.
	pgCreds := &checkoutrepo.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDBName,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}
	sessionRepo, err := checkoutrepo.NewRepository(pgCreds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer sessionRepo.Close()

	if err := sessionRepo.RunMigrations(pgCreds); err != nil {
		log.Fatalf("failed to run checkout migrations: %v", err)
	}

	catalogRepo, err := catalogrepo.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsDir); err != nil {
		log.Fatalf("failed to run catalog migrations: %v", err)
	}

	orderRepository := orderrepo.NewMongoRepository(mongoDB)
	orderPublisher := orderpublisher.NewKafkaPublisher(cfg.OrderTopic, cfg.KafkaBrokers...)
	defer orderPublisher.Close()
	orderService := orderservice.NewOrderService(orderRepository, orderPublisher)

	submitter, err := orderclient.NewHTTPSubmitter(cfg.OrderEndpoint, cfg.SubmitTimeout)
	if err != nil {
		log.Fatalf("order submitter misconfigured: %v", err)
	}

	checkoutSvc := checkoutservice.NewCheckoutService(sessionRepo, cartService, submitter, checkoutservice.PricingConfig{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingRate:      cfg.FlatShippingRate,
	}, cfg.SubmitTimeout)

	userRepo := authrepo.NewMongoRepository(mongoDB)
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}
	authSvc := authservice.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	toastQueue := toast.NewQueue(32)

	smtpPort, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		smtpPort = 587
	}
	mailer, err := email.NewMailer(email.Config{
		Host:         cfg.SMTPHost,
		Port:         smtpPort,
		Username:     cfg.SMTPUser,
		Password:     cfg.SMTPPass,
		From:         cfg.SMTPUser,
		OwnerEmail:   cfg.OwnerEmail,
		ShopName:     cfg.ShopName,
		Locale:       cfg.CurrencyLocale,
		CurrencyCode: cfg.CurrencyCode,
	})
	if err != nil {
		log.Fatalf("failed to build mailer: %v", err)
	}

	// Notification worker: consumes order-created events, emails customer
	// and owner, pushes a toast.
	ownerContact := consumer.OwnerContact{
		Phone:    cfg.OwnerPhone,
		Locale:   cfg.CurrencyLocale,
		Currency: cfg.CurrencyCode,
	}
	notifyConsumer := consumer.NewConsumer(orderRepository, mailer, toastQueue, ownerContact, cfg.OrderTopic, cfg.KafkaBrokers...)
	defer notifyConsumer.Close()
	go notifyConsumer.Run(ctx)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Carts:          cartService,
		Checkout:       checkoutSvc,
		Orders:         orderService,
		Products:       catalogRepo,
		Auth:           authSvc,
		Toasts:         toastQueue,
		RequestTimeout: cfg.RequestTimeout,
		TokenTTL:       cfg.TokenTTL,
		MaxBodySize:    cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "electrostore.http"),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		log.Printf("ElectroStore server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
