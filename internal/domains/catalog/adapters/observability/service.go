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

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging and metrics.
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

// WithMeter injects the meter used to create service metrics instruments.
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
	return s
}

func (s *Service) Login(ctx context.Context, name, email string) (domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Login")
	defer span.End()

	session, err := s.inner.Login(ctx, name, email)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return domain.Session{}, s.handleError(ctx, span, err, "login rejected")
	}
	s.metrics.recordLogin(ctx, true)
	s.log(ctx, slog.LevelInfo, "visitor logged in", slog.String("email", session.Email), slog.Time("expires_at", session.ExpiresAt))
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Logout")
	defer span.End()

	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	s.log(ctx, slog.LevelInfo, "visitor logged out")
	return nil
}

// Authenticate runs on every protected request, so it only logs at debug level.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Authenticate")
	defer span.End()

	session, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordRejected(ctx)
		s.log(ctx, slog.LevelDebug, "session rejected", slog.String("error", err.Error()))
		return domain.Session{}, err
	}
	return session, nil
}

func (s *Service) Breeds(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Breeds")
	defer span.End()

	breeds, err := s.inner.Breeds(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list breeds")
	}
	span.SetAttributes(attribute.Int("catalog.breeds.count", len(breeds)))
	return breeds, nil
}

func (s *Service) Search(ctx context.Context, q domain.Query) (domain.Page, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Search", trace.WithAttributes(
		attribute.StringSlice("catalog.search.breeds", q.Breeds),
		attribute.String("catalog.search.sort", string(q.Order.Field)),
		attribute.Int("catalog.search.size", q.Size),
		attribute.Int("catalog.search.from", q.From),
	))
	defer span.End()

	page, err := s.inner.Search(ctx, q)
	if err != nil {
		return domain.Page{}, s.handleError(ctx, span, err, "search failed", slog.Any("breeds", q.Breeds))
	}
	span.SetAttributes(attribute.Int("catalog.search.total", page.Total))
	s.metrics.recordSearch(ctx, len(q.Breeds) > 0)
	s.log(ctx, slog.LevelDebug, "search served", slog.Int("total", page.Total), slog.Int("returned", len(page.IDs)))
	return page, nil
}

func (s *Service) Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Hydrate", trace.WithAttributes(attribute.Int("catalog.ids.count", len(ids))))
	defer span.End()

	dogs, err := s.inner.Hydrate(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load dogs", slog.Int("ids", len(ids)))
	}
	span.SetAttributes(attribute.Int("catalog.dogs.count", len(dogs)))
	return dogs, nil
}

func (s *Service) Match(ctx context.Context, ids []string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Match", trace.WithAttributes(attribute.Int("catalog.ids.count", len(ids))))
	defer span.End()

	id, err := s.inner.Match(ctx, ids)
	if err != nil {
		return "", s.handleError(ctx, span, err, "match failed", slog.Int("ids", len(ids)))
	}
	s.metrics.recordMatch(ctx)
	s.log(ctx, slog.LevelInfo, "match chosen", slog.String("dog.id", id), slog.Int("candidates", len(ids)))
	return id, nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.log(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	logins   metric.Int64Counter
	rejected metric.Int64Counter
	searches metric.Int64Counter
	matches  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("catalog.service.logins", metric.WithDescription("Login attempts"))
	rejected, _ := m.Int64Counter("catalog.service.sessions_rejected", metric.WithDescription("Requests refused for a missing or expired session"))
	searches, _ := m.Int64Counter("catalog.service.searches", metric.WithDescription("Searches served"))
	matches, _ := m.Int64Counter("catalog.service.matches", metric.WithDescription("Matches chosen"))
	return serviceMetrics{logins: logins, rejected: rejected, searches: searches, matches: matches}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	addCounter(ctx, m.logins, 1, attribute.Bool("login.success", ok))
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	addCounter(ctx, m.rejected, 1)
}

func (m serviceMetrics) recordSearch(ctx context.Context, filtered bool) {
	addCounter(ctx, m.searches, 1, attribute.Bool("search.filtered", filtered))
}

func (m serviceMetrics) recordMatch(ctx context.Context) {
	addCounter(ctx, m.matches, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
