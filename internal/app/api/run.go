package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	razorpayclient "github.com/husnhira/storefront/internal/clients/http/razorpay"
	twilioclient "github.com/husnhira/storefront/internal/clients/twilio"
	adminhttp "github.com/husnhira/storefront/internal/domains/admin/adapters/http"
	adminmemory "github.com/husnhira/storefront/internal/domains/admin/adapters/memory"
	adminpostgres "github.com/husnhira/storefront/internal/domains/admin/adapters/persistence/postgres"
	adminapp "github.com/husnhira/storefront/internal/domains/admin/application"
	adminports "github.com/husnhira/storefront/internal/domains/admin/ports"
	razorpaygateway "github.com/husnhira/storefront/internal/domains/orders/adapters/external/razorpay"
	ordershttp "github.com/husnhira/storefront/internal/domains/orders/adapters/http"
	ordersmemory "github.com/husnhira/storefront/internal/domains/orders/adapters/memory"
	"github.com/husnhira/storefront/internal/domains/orders/adapters/notify"
	ordersobs "github.com/husnhira/storefront/internal/domains/orders/adapters/observability"
	ordersmongo "github.com/husnhira/storefront/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/husnhira/storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/husnhira/storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/husnhira/storefront/internal/domains/orders/application"
	ordersports "github.com/husnhira/storefront/internal/domains/orders/ports"
	otphttp "github.com/husnhira/storefront/internal/domains/otp/adapters/http"
	otpmemory "github.com/husnhira/storefront/internal/domains/otp/adapters/memory"
	otpredis "github.com/husnhira/storefront/internal/domains/otp/adapters/redis"
	otpapp "github.com/husnhira/storefront/internal/domains/otp/application"
	otpports "github.com/husnhira/storefront/internal/domains/otp/ports"
	"github.com/husnhira/storefront/internal/platform/migrations"
	platformmongo "github.com/husnhira/storefront/internal/platform/mongo"
	platformobservability "github.com/husnhira/storefront/internal/platform/observability"
	platformpostgres "github.com/husnhira/storefront/internal/platform/postgres"
	"github.com/husnhira/storefront/internal/platform/ratelimit"
	platformredis "github.com/husnhira/storefront/internal/platform/redis"
)

const (
	serviceName     = "husnhira-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the storefront HTTP API and blocks until ctx is cancelled or the
// server fails. In-flight notifications are drained before it returns.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		SentryDSN:   cfg.SentryDSN,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	orderRepo, closeRepo := buildOrderRepository(ctx, cfg, db, logger)
	defer closeRepo()

	rzp, err := razorpayclient.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, nil)
	if err != nil {
		return &ConfigError{Key: "RAZORPAY_KEY_ID", Reason: err.Error()}
	}

	sms := buildSMSClient(cfg, logger)
	notifier, closeNotifier := buildNotifier(cfg, sms, instruments)
	defer closeNotifier()
	dispatcher := ordersapp.NewDispatcher(notifier,
		ordersapp.WithNotifyTimeout(cfg.NotifyTimeout),
		ordersapp.WithDispatcherLogger(logger),
	)
	defer dispatcher.Wait()

	coreOrders := ordersapp.NewService(orderRepo, razorpaygateway.NewGateway(rzp), cfg.RazorpayKeySecret,
		ordersapp.WithDispatcher(dispatcher))
	orderService := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	sessions := buildSessionStore(ctx, cfg, db, logger)
	adminService, err := adminapp.NewService(adminapp.Credentials{
		Username:     cfg.AdminUser,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       []byte(cfg.SessionSecret),
		SessionTTL:   cfg.SessionTTL,
	}, sessions)
	if err != nil {
		return &ConfigError{Key: "ADMIN_USER", Reason: err.Error()}
	}

	redisClient, closeRedis := platformredis.ConnectOptional(ctx, platformredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	defer closeRedis()
	var otpStore otpports.Store = otpmemory.NewStore()
	if redisClient != nil {
		otpStore = otpredis.NewStore(redisClient)
	}
	var otpSender otpports.Sender = logSMSSender{logger: logger}
	if sms != nil {
		otpSender = sms
	}

	router, err := NewRouter(serviceName, Handlers{
		Orders: ordershttp.NewOrdersAPI(orderService, rzp.KeyID(), ordershttp.WithRevenueMode(cfg.RevenueMode)),
		Admin:  adminhttp.NewHandler(adminService, adminhttp.WithSecureCookie(cfg.Environment == "production")),
		OTP:    otphttp.NewHandler(otpapp.NewService(otpStore, otpSender)),
	}, ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("storefront API shutting down")
	return server.Shutdown(shutdownCtx)
}

func buildOrderRepository(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (ordersports.Repository, func()) {
	switch cfg.StoreBackend {
	case StorePostgres:
		if db == nil {
			logger.Warn("postgres order store unavailable, falling back to in-memory order repository")
			return ordersmemory.NewRepository(), func() {}
		}
		logger.Info("order repository configured with postgres")
		return orderspostgres.NewRepository(db), func() {}
	case StoreMongo:
		mdb, cleanup := platformmongo.ConnectOptional(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if mdb == nil {
			return ordersmemory.NewRepository(), func() {}
		}
		repo := ordersmongo.NewRepository(mdb)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to ensure mongo order indexes, falling back to memory", slog.String("error", err.Error()))
			cleanup()
			return ordersmemory.NewRepository(), func() {}
		}
		logger.Info("order repository configured with mongo", slog.String("database", cfg.MongoDatabase))
		return repo, cleanup
	default:
		logger.Warn("orders are kept in process memory and lost on restart")
		return ordersmemory.NewRepository(), func() {}
	}
}

func buildSessionStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) adminports.SessionStore {
	if db == nil {
		return adminmemory.NewSessionStore()
	}
	store := adminpostgres.NewSessionStore(db)
	if cfg.SessionPurgeIntervalMinute > 0 {
		go purgeSessions(ctx, store, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, logger)
	}
	return store
}

func purgeSessions(ctx context.Context, store *adminpostgres.SessionStore, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("admin session purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("admin sessions purged", slog.Int64("removed", removed))
		}
	}
}

func buildSMSClient(cfg Config, logger *slog.Logger) *twilioclient.Client {
	twilioCfg := twilioclient.Config{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	}
	if !twilioCfg.Enabled() {
		logger.Warn("twilio credentials not set, text messages are logged instead of sent")
		return nil
	}
	sms, err := twilioclient.NewClient(twilioCfg)
	if err != nil {
		logger.Warn("failed to configure twilio, text messages are logged instead of sent", slog.String("error", err.Error()))
		return nil
	}
	return sms
}

// buildNotifier prefers the durable workflow and falls back to sending inline.
func buildNotifier(cfg Config, sms *twilioclient.Client, instruments *platformobservability.Instruments) (ordersports.Notifier, func()) {
	logger := effectiveLogger(instruments)
	var inline ordersports.Notifier = notify.NewLoggingNotifier(logger)
	if sms != nil {
		inline = notify.NewSMSNotifier(sms)
	}
	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, sending order notifications inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return ordersworkflows.NewTemporalNotifier(temporalClient), temporalClient.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// logSMSSender stands in for Twilio in development. It never logs the body,
// which may carry a one-time code.
type logSMSSender struct {
	logger *slog.Logger
}

func (s logSMSSender) SendSMS(ctx context.Context, to, _ string) (string, error) {
	s.logger.InfoContext(ctx, "sms not sent, twilio disabled", slog.Int("to.length", len(to)))
	return "", nil
}
