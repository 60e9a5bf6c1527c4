package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-dog-finder/internal/domains/session/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/session/ports"
)

const tracerName = "github.com/Apurer/go-dog-finder/internal/domains/session/adapters/observability/service"

// Service decorates the session port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create session counters.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	inner.OnEnd(func(ctx context.Context, reason domain.EndReason) {
		s.metrics.recordEnded(ctx, reason)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "session ended", slog.String("reason", string(reason)))
	})
	return s
}

// Login signs the user in. Email addresses are not logged.
func (s *Service) Login(ctx context.Context, name, email string) (domain.UserSession, error) {
	ctx, span := s.tracer.Start(ctx, "Session.Login")
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "logging in", slog.String("user.name", name))
	session, err := s.inner.Login(ctx, name, email)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return session, s.handleError(ctx, span, err, "login failed", slog.String("user.name", name))
	}
	s.metrics.recordLogin(ctx, true)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "logged in", slog.String("user.name", session.Name))
	return session, nil
}

// Logout signs the user out.
func (s *Service) Logout(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "Session.Logout")
	defer span.End()

	if err := s.inner.Logout(ctx); err != nil {
		return s.handleError(ctx, span, err, "logout not confirmed by service")
	}
	return nil
}

// Expire records the forced sign out.
func (s *Service) Expire(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "Session.Expire", trace.WithAttributes(
		attribute.Bool("session.was_authenticated", s.inner.Authenticated()),
	))
	defer span.End()

	s.inner.Expire(ctx)
}

func (s *Service) OnEnd(listener ports.EndListener) { s.inner.OnEnd(listener) }

func (s *Service) Current() domain.UserSession { return s.inner.Current() }

func (s *Service) Authenticated() bool { return s.inner.Authenticated() }

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	logins metric.Int64Counter
	ended  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("session.logins", metric.WithDescription("Login attempts by outcome"))
	ended, _ := m.Int64Counter("session.ended", metric.WithDescription("Sessions ended by reason"))
	return serviceMetrics{logins: logins, ended: ended}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	if m.logins == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("login.success", ok)))
}

func (m serviceMetrics) recordEnded(ctx context.Context, reason domain.EndReason) {
	if m.ended == nil {
		return
	}
	m.ended.Add(ctx, 1, metric.WithAttributes(attribute.String("session.end_reason", string(reason))))
}

var _ ports.Service = (*Service)(nil)
