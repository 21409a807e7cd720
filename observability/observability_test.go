package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/mawarena/config"
)

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: format})
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestNewLoggerRejectsBadInput(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "shout", Format: "json"})
	assert.ErrorContains(t, err, "parsing log level")

	_, err = NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")
}

func TestMetricsIsolatedRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.Damage.WithLabelValues("goblin").Add(12)
	a.Deaths.WithLabelValues("goblin").Inc()

	assert.Contains(t, scrape(t, a), `arena_damage_total{archetype="goblin"} 12`)
	assert.NotContains(t, scrape(t, b), `arena_damage_total{archetype="goblin"}`)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsHandlerServesText(t *testing.T) {
	m := NewMetrics()
	m.ObserveFrame(2 * time.Millisecond)
	m.LiveEntities.Set(4)

	body := scrape(t, m)
	assert.Contains(t, body, "arena_live_entities 4")
	assert.Contains(t, body, "arena_frame_duration_seconds_count 1")
}
