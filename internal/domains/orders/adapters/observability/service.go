package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/husnhira/storefront/internal/domains/orders/application"
	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

const tracerName = "github.com/husnhira/storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.DiscardHandler),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreatePaymentIntent(ctx context.Context, input types.CheckoutInput) (*types.PaymentIntent, error) {
	couponApplied := domain.CouponApplied(input.Coupon)
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreatePaymentIntent",
		trace.WithAttributes(attribute.Bool("order.coupon_applied", couponApplied)))
	defer span.End()

	result, err := s.inner.CreatePaymentIntent(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create payment intent")
	}
	span.SetAttributes(attribute.String("payment.intent_id", result.IntentID), attribute.Int("order.amount", result.Amount))
	s.logInfo(ctx, "payment intent created",
		slog.String("payment.intent_id", result.IntentID),
		slog.Int("order.amount", result.Amount),
		slog.Bool("order.coupon_applied", couponApplied))
	return result, nil
}

func (s *Service) ConfirmOnlineOrder(ctx context.Context, input types.PaymentConfirmation) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ConfirmOnlineOrder",
		trace.WithAttributes(attribute.String("payment.intent_id", input.IntentID)))
	defer span.End()

	result, err := s.inner.ConfirmOnlineOrder(ctx, input)
	if err != nil {
		if errors.Is(err, application.ErrAuthenticity) {
			s.metrics.recordVerificationFailure(ctx)
		}
		return nil, s.handleError(ctx, span, err, "failed to confirm online order",
			slog.String("payment.intent_id", input.IntentID))
	}
	s.metrics.recordCreated(ctx, result.PaymentMethod)
	s.logInfo(ctx, "online order confirmed",
		slog.String("order.id", result.ID),
		slog.String("order.order_id", result.OrderID),
		slog.Int("order.price", result.Price))
	return result, nil
}

func (s *Service) CreateCODOrder(ctx context.Context, input types.CheckoutInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreateCODOrder")
	defer span.End()

	result, err := s.inner.CreateCODOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create cash order")
	}
	span.SetAttributes(attribute.String("order.order_id", result.OrderID))
	s.metrics.recordCreated(ctx, result.PaymentMethod)
	s.logInfo(ctx, "cash order created",
		slog.String("order.id", result.ID),
		slog.String("order.order_id", result.OrderID),
		slog.Int("order.price", result.Price))
	return result, nil
}

func (s *Service) Transition(ctx context.Context, id string, target domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Transition",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.target_status", string(target))))
	defer span.End()

	result, err := s.inner.Transition(ctx, id, target)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to transition order",
			slog.String("order.id", id), slog.String("order.target_status", string(target)))
	}
	s.metrics.recordTransition(ctx, target)
	s.logInfo(ctx, "order transitioned", slog.String("order.id", id), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Cancel", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	prior, err := s.inner.Cancel(ctx, id)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx, "cancel", 1)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", id), slog.String("status", string(prior)))
	return prior, nil
}

func (s *Service) DeleteFromHistory(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteFromHistory", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := s.inner.DeleteFromHistory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order from history", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx, "history", 1)
	s.logInfo(ctx, "order deleted from history", slog.String("order.id", id))
	return nil
}

func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ClearHistory")
	defer span.End()

	removed, err := s.inner.ClearHistory(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to clear history")
	}
	span.SetAttributes(attribute.Int64("orders.removed", removed))
	s.metrics.recordDeleted(ctx, "clear_history", removed)
	s.logInfo(ctx, "history cleared", slog.Int64("orders.removed", removed))
	return removed, nil
}

func (s *Service) ListOrders(ctx context.Context, query types.OrderListQuery) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(
			attribute.String("order.status", string(query.Status)),
			attribute.Bool("query.search", query.Search != ""),
			attribute.Bool("query.date", query.Date != nil),
			attribute.Int("query.page", query.Page),
		))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("order.status", string(query.Status)))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ChartData(ctx context.Context, status *domain.Status, mode types.RevenueMode) (*types.ChartData, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ChartData",
		trace.WithAttributes(attribute.String("order.status", statusAttr(status)), attribute.String("chart.mode", string(mode))))
	defer span.End()

	result, err := s.inner.ChartData(ctx, status, mode)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build chart data", slog.String("order.status", statusAttr(status)))
	}
	span.SetAttributes(attribute.Int("chart.days", len(result.Labels)))
	return result, nil
}

func (s *Service) ExportOrders(ctx context.Context, status *domain.Status) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ExportOrders",
		trace.WithAttributes(attribute.String("order.status", statusAttr(status))))
	defer span.End()

	result, err := s.inner.ExportOrders(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to export orders", slog.String("order.status", statusAttr(status)))
	}
	s.logInfo(ctx, "orders exported", slog.String("order.status", statusAttr(status)), slog.Int("orders.count", len(result)))
	return result, nil
}

func statusAttr(status *domain.Status) string {
	if status == nil {
		return "all"
	}
	return string(*status)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, level slog.Level, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

// handleError marks the span and logs. Client mistakes log at warn, the rest at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelError
	if isClientError(err) {
		level = slog.LevelWarn
	}
	s.logError(ctx, level, msg, err, attrs...)
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, application.ErrAuthenticity) ||
		errors.Is(err, application.ErrInvalidTransition) ||
		errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, ports.ErrDuplicateOrder)
}

type serviceMetrics struct {
	created              metric.Int64Counter
	transitions          metric.Int64Counter
	deleted              metric.Int64Counter
	verificationFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status transitions"))
	deleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	verificationFailures, _ := m.Int64Counter("orders.service.verification_failures",
		metric.WithDescription("Number of payment confirmations with an invalid signature"))
	return serviceMetrics{
		created:              created,
		transitions:          transitions,
		deleted:              deleted,
		verificationFailures: verificationFailures,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, method domain.PaymentMethod) {
	if m.created != nil {
		m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", string(method))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, target domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(target))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context, reason string, n int64) {
	if m.deleted != nil && n > 0 {
		m.deleted.Add(ctx, n, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m serviceMetrics) recordVerificationFailure(ctx context.Context) {
	if m.verificationFailures != nil {
		m.verificationFailures.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
