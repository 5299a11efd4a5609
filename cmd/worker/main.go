package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	twilioclient "github.com/husnhira/storefront/internal/clients/twilio"
	"github.com/husnhira/storefront/internal/domains/orders/adapters/notify"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
	orderactivities "github.com/husnhira/storefront/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/husnhira/storefront/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/husnhira/storefront/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "husnhira-worker"
	v := viper.New()
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("ENVIRONMENT", "local")
	v.AutomaticEnv()

	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: v.GetString("ENVIRONMENT"),
		SentryDSN:   v.GetString("SENTRY_DSN"),
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	var notifier ports.Notifier = notify.NewLoggingNotifier(logger)
	sms, err := twilioclient.NewClient(twilioclient.Config{
		AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
		AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
		FromNumber: v.GetString("TWILIO_FROM_NUMBER"),
	})
	if err != nil {
		logger.Warn("twilio not configured, order notifications are only logged", slog.String("error", err.Error()))
	} else {
		notifier = notify.NewSMSNotifier(sms)
	}
	activities := orderactivities.NewActivities(notifier)

	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")})
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  v.GetString("TEMPORAL_ADDRESS"),
		Namespace: v.GetString("TEMPORAL_NAMESPACE"),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.NotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.NotificationWorkflow, workflow.RegisterOptions{Name: orderworkflows.NotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.SendOrderSMS, activity.RegisterOptions{Name: orderactivities.SendOrderSMSActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.NotificationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
