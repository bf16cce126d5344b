package initialize

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/logger"
)

func TestStepMetrics(t *testing.T) {
	defaultPrefix(t)
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	p, _ := newTestInitializer(t, nil)
	p.WithMetrics(m)

	store := newMemStore()
	store.failures["LandingPageConfigExists"] = errors.New("timeout")
	_, err = p.Run(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.stepTotal.WithLabelValues("migration", resultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stepTotal.WithLabelValues("landing_page", resultFailure)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.stepTotal.WithLabelValues("landing_page", resultSuccess)))
	assert.Equal(t, 8, testutil.CollectAndCount(m.stepDuration))
}

func TestMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNilMetricsAreIgnored(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe(StepResult{Name: "migration"}) })
}

func TestLogStartupSummary(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.New()
	cfg.Update(map[string]string{
		config.SMTPHost:     "smtp.acme.test",
		config.Port:         "8080",
		config.FrontendPort: "3000",
	})

	LogStartupSummary(logger.NewWithZap(zap.New(core)), cfg)

	assert.Equal(t, 1, logs.FilterMessage("  ✓ Email/SMTP: Enabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("  ✓ Demo Login: Disabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("  ✓ Landing Page: Enabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("Database: localhost:5432/oneapp").Len())
	assert.Equal(t, 1, logs.FilterMessage("  • API Server: http://localhost:8080").Len())
	assert.Equal(t, 1, logs.FilterMessage("  • Super Admin: http://localhost:3000/#/super-admin").Len())
}
