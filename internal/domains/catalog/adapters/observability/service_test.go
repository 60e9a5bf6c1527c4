package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/application"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
)

func TestService_SpansAndLogs(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo := memory.NewRepository()
	require.NoError(t, repo.Save(context.Background(), domain.Dog{ID: "d1", Name: "Rex", Breed: "Husky", Age: 3}))
	svc := New(application.NewService(repo, memory.NewSessionStore()),
		WithTracer(provider.Tracer("test")),
		WithLogger(logger),
	)
	ctx := context.Background()

	_, err := svc.Search(ctx, domain.Query{Order: domain.DefaultOrder, Size: 10})
	require.NoError(t, err)
	_, err = svc.Match(ctx, nil)
	require.Error(t, err)
	_, err = svc.Authenticate(ctx, "nope")
	require.ErrorIs(t, err, application.ErrUnauthenticated)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, "CatalogService.Search", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, "CatalogService.Match", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	require.Equal(t, codes.Error, spans[2].Status().Code)

	require.Contains(t, buf.String(), `"msg":"search served"`)
	require.Contains(t, buf.String(), `"msg":"match failed"`)
	require.Contains(t, buf.String(), `"msg":"session rejected"`)
}
