// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/someonegg/stablematch"

// SolverMetrics counts solver runs. A nil *SolverMetrics records nothing.
type SolverMetrics struct {
	runs      metric.Int64Counter
	proposals metric.Int64Counter
	blocking  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewSolverMetrics creates the instruments on mp, or on the global meter
// provider when mp is nil.
func NewSolverMetrics(mp metric.MeterProvider) (*SolverMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentation)

	runs, err := meter.Int64Counter(
		"stablematch.runs",
		metric.WithDescription("Solver runs by engine and status"),
	)
	if err != nil {
		return nil, err
	}

	proposals, err := meter.Int64Counter(
		"stablematch.proposals",
		metric.WithDescription("Proposals made by the solvers"),
	)
	if err != nil {
		return nil, err
	}

	blocking, err := meter.Int64Counter(
		"stablematch.blocking_pairs",
		metric.WithDescription("Blocking pairs found by the verifier"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"stablematch.solve.duration",
		metric.WithDescription("Solver wall time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SolverMetrics{
		runs:      runs,
		proposals: proposals,
		blocking:  blocking,
		duration:  duration,
	}, nil
}

func (sm *SolverMetrics) RecordRun(ctx context.Context, engine, status string, proposals int, elapsed time.Duration) {
	if sm == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.String("status", status),
	)
	sm.runs.Add(ctx, 1, attrs)
	sm.proposals.Add(ctx, int64(proposals), attrs)
	sm.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (sm *SolverMetrics) RecordBlocking(ctx context.Context, n int) {
	if sm == nil {
		return
	}
	sm.blocking.Add(ctx, int64(n))
}

// StartSpan starts a span on the global tracer provider.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}
