package telemetry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/erp/clerkfeed/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type probe struct {
	ID    uint
	Email string
}

func openTracedDB(t *testing.T, cfg telemetry.DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&probe{}))
	require.NoError(t, db.Create(&probe{ID: 42, Email: "ada@example.com"}).Error)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	cfg.TracerProvider = tp

	require.NoError(t, telemetry.RegisterDBTracing(db, cfg, zap.NewNop()))
	return db, sr
}

func clientSpans(sr *tracetest.SpanRecorder) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.SpanKind() == trace.SpanKindClient {
			out = append(out, s)
		}
	}
	return out
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled registers nothing", func(t *testing.T) {
		db, sr := openTracedDB(t, telemetry.DBTracingConfig{Enabled: false})

		var rows []probe
		require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
		assert.Empty(t, sr.Ended())
	})

	t.Run("query span without bound variables", func(t *testing.T) {
		db, sr := openTracedDB(t, telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"})

		var rows []probe
		require.NoError(t, db.WithContext(context.Background()).Where("email = ?", "ada@example.com").Find(&rows).Error)
		require.Len(t, rows, 1)

		spans := clientSpans(sr)
		require.NotEmpty(t, spans)
		for _, s := range spans {
			for _, a := range s.Attributes() {
				assert.False(t, strings.Contains(a.Value.Emit(), "ada@example.com"), "attribute %s leaks a bound value", a.Key)
			}
		}
	})

	t.Run("slow queries are flagged", func(t *testing.T) {
		db, sr := openTracedDB(t, telemetry.DBTracingConfig{Enabled: true, SlowQuery: time.Nanosecond})

		var rows []probe
		require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)

		var flagged bool
		for _, s := range clientSpans(sr) {
			for _, a := range s.Attributes() {
				if a.Key == "db.slow_query" && a.Value.AsBool() {
					flagged = true
				}
			}
		}
		assert.True(t, flagged)
	})
}
