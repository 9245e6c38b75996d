package xapplog

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	instrumentationName = "github.com/omeyang/duallog/xapplog"

	MetricWriteTotal    = "duallog.write.total"
	MetricWriteRetries  = "duallog.write.retries"
	MetricRotationTotal = "duallog.rotation.total"
	MetricPruneRemoved  = "duallog.prune.removed"
)

// instruments 写入、轮转和清理计数器。
type instruments struct {
	writeTotal    metric.Int64Counter
	writeRetries  metric.Int64Counter
	rotationTotal metric.Int64Counter
	pruneRemoved  metric.Int64Counter
}

// newInstruments 创建失败的计数器退化为 noop，返回合并的错误供诊断日志记录。
func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	fallback := noop.Meter{}

	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("1"))
		if err != nil {
			errs = append(errs, err)
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}

	ins := &instruments{
		writeTotal:    counter(MetricWriteTotal, "log line appends per sink"),
		writeRetries:  counter(MetricWriteRetries, "retried sink appends"),
		rotationTotal: counter(MetricRotationTotal, "system log rotations"),
		pruneRemoved:  counter(MetricPruneRemoved, "archives removed by retention"),
	}
	return ins, errors.Join(errs...)
}

func (i *instruments) write(ctx context.Context, sink, status string) {
	i.writeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sink", sink),
		attribute.String("status", status),
	))
}

func (i *instruments) retries(ctx context.Context, sink string, n int) {
	if n <= 0 {
		return
	}
	i.writeRetries.Add(ctx, int64(n), metric.WithAttributes(attribute.String("sink", sink)))
}

func (i *instruments) rotated(ctx context.Context) {
	i.rotationTotal.Add(ctx, 1)
}

func (i *instruments) pruned(ctx context.Context, n int) {
	if n > 0 {
		i.pruneRemoved.Add(ctx, int64(n))
	}
}
