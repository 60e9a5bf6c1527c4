package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
)

const tracerName = "github.com/Apurer/go-dog-finder/internal/domains/dogs/adapters/observability/catalog"

// Catalog decorates the catalog port with tracing, logging, and metrics.
type Catalog struct {
	inner   ports.Catalog
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics catalogMetrics
}

type Option func(*Catalog)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Catalog) {
		c.tracer = tr
	}
}

// WithMeter injects the meter used to create catalog instruments.
func WithMeter(m metric.Meter) Option {
	return func(c *Catalog) {
		c.metrics = newCatalogMetrics(m)
	}
}

// New wires a decorator around a catalog implementation.
func New(inner ports.Catalog, opts ...Option) ports.Catalog {
	c := &Catalog{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newCatalogMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

func (c *Catalog) Breeds(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "Catalog.Breeds")
	defer span.End()

	breeds, err := c.inner.Breeds(ctx)
	if err != nil {
		return nil, c.handleError(ctx, span, "breeds", err, "failed to load breeds")
	}
	span.SetAttributes(attribute.Int("dog.breeds.count", len(breeds)))
	c.logger.LogAttrs(ctx, slog.LevelDebug, "loaded breeds", slog.Int("count", len(breeds)))
	return breeds, nil
}

func (c *Catalog) Search(ctx context.Context, query domain.SearchQuery) (domain.SearchPage, error) {
	ctx, span := c.tracer.Start(ctx, "Catalog.Search", trace.WithAttributes(
		attribute.StringSlice("dog.search.breeds", query.Breeds),
		attribute.String("dog.search.sort", query.Sort),
		attribute.Int("dog.search.size", query.Size),
		attribute.Bool("dog.search.paged", query.From != ""),
	))
	defer span.End()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "searching dogs",
		slog.Any("breeds", query.Breeds),
		slog.String("sort", query.Sort),
		slog.Int("size", query.Size),
	)
	page, err := c.inner.Search(ctx, query)
	if err != nil {
		return domain.SearchPage{}, c.handleError(ctx, span, "search", err, "failed to search dogs")
	}
	c.metrics.recordSearch(ctx, query.From != "")
	span.SetAttributes(attribute.Int("dog.search.total", page.Total), attribute.Int("dog.search.returned", len(page.ResultIDs)))
	c.logger.LogAttrs(ctx, slog.LevelInfo, "searched dogs", slog.Int("total", page.Total), slog.Int("returned", len(page.ResultIDs)))
	return page, nil
}

func (c *Catalog) Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error) {
	ctx, span := c.tracer.Start(ctx, "Catalog.Hydrate", trace.WithAttributes(attribute.Int("dog.ids.count", len(ids))))
	defer span.End()

	dogs, err := c.inner.Hydrate(ctx, ids)
	if err != nil {
		return nil, c.handleError(ctx, span, "hydrate", err, "failed to load dogs", slog.Int("ids", len(ids)))
	}
	span.SetAttributes(attribute.Int("dog.result.count", len(dogs)))
	return dogs, nil
}

func (c *Catalog) Match(ctx context.Context, ids []string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "Catalog.Match", trace.WithAttributes(attribute.Int("dog.favorites.count", len(ids))))
	defer span.End()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "requesting match", slog.Int("favorites", len(ids)))
	id, err := c.inner.Match(ctx, ids)
	if err != nil {
		return "", c.handleError(ctx, span, "match", err, "failed to request match")
	}
	c.metrics.recordMatch(ctx)
	span.SetAttributes(attribute.String("dog.match.id", id))
	c.logger.LogAttrs(ctx, slog.LevelInfo, "matched dog", slog.String("dog.id", id))
	return id, nil
}

func (c *Catalog) handleError(ctx context.Context, span trace.Span, call string, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	unauthorized := errors.Is(err, ports.ErrUnauthorized)
	c.metrics.recordFailure(ctx, call, unauthorized)
	attrs = append(attrs, slog.String("error", err.Error()), slog.Bool("unauthorized", unauthorized))
	c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type catalogMetrics struct {
	searches metric.Int64Counter
	matches  metric.Int64Counter
	failures metric.Int64Counter
}

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	if m == nil {
		return catalogMetrics{}
	}
	searches, _ := m.Int64Counter("dogs.catalog.searches", metric.WithDescription("Search pages loaded"))
	matches, _ := m.Int64Counter("dogs.catalog.matches", metric.WithDescription("Matches returned"))
	failures, _ := m.Int64Counter("dogs.catalog.failures", metric.WithDescription("Catalog calls that failed"))
	return catalogMetrics{searches: searches, matches: matches, failures: failures}
}

func (m catalogMetrics) recordSearch(ctx context.Context, paged bool) {
	addCounter(ctx, m.searches, attribute.Bool("dog.search.paged", paged))
}

func (m catalogMetrics) recordMatch(ctx context.Context) {
	addCounter(ctx, m.matches)
}

func (m catalogMetrics) recordFailure(ctx context.Context, call string, unauthorized bool) {
	addCounter(ctx, m.failures, attribute.String("dog.catalog.call", call), attribute.Bool("unauthorized", unauthorized))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var _ ports.Catalog = (*Catalog)(nil)
