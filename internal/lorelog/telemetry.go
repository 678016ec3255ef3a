package lorelog

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics installs a global OTel MeterProvider when LORE_METRICS=1,
// matching the storage layer's use of otel.Meter("...") against the
// ambient global provider (it is a no-op until a real provider is set).
// The returned shutdown func flushes and must be called before process
// exit; it is a no-op when metrics were never enabled.
func InitMetrics(ctx context.Context) (shutdown func(context.Context) error, err error) {
	if os.Getenv("LORE_METRICS") != "1" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithoutTimestamps())
	if err != nil {
		return nil, err
	}
	provider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
	)
	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}
