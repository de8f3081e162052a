package database

import (
	"testing"

	"socialnet/internal/models"
	"socialnet/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestQueryCallbacks_RecordSpansAndLatency(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = previous })

	db, err := Connect(sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	user := models.User{Nickname: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	var found models.User
	require.NoError(t, db.First(&found, user.ID).Error)

	names := map[string]bool{}
	for _, span := range recorder.Ended() {
		names[span.Name()] = true
	}
	assert.True(t, names["db.create"], "missing create span")
	assert.True(t, names["db.query"], "missing query span")

	assert.Positive(t, testutil.CollectAndCount(observability.DatabaseQueryLatency))
}
