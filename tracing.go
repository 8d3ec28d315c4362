// Copyright 2026 Corvus Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package skink

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

func (n *Node) setupTracing() error {
	ctx := context.Background()
	shutdownFuncs, err := n.setupOTelSDK(ctx)
	n.shutdownFuncs = append(n.shutdownFuncs, shutdownFuncs...)
	return err
}

// setupOTelSDK bootstraps the OpenTelemetry pipeline
func (n *Node) setupOTelSDK(
	ctx context.Context,
) ([]func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error
	var err error
	// shutdown calls cleanup functions registered via shutdownFuncs.
	// The errors from the calls are joined.
	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}
	// handleErr calls shutdown for cleanup and makes sure that all errors are returned
	handleErr := func(inErr error) {
		err = errors.Join(inErr, shutdown(ctx))
	}
	// Set up propagator
	prop := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(prop)
	// Set up trace provider
	tracerProvider, err := n.newTraceProvider(ctx)
	if err != nil {
		handleErr(err)
		return shutdownFuncs, err
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	return shutdownFuncs, err
}

func (n *Node) newTraceProvider(
	ctx context.Context,
) (*trace.TracerProvider, error) {
	var opts []trace.TracerProviderOption
	if n.config.tracingStdout {
		stdoutExporter, err := stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, err
		}
		opts = append(
			opts,
			trace.WithBatcher(
				stdoutExporter,
				trace.WithBatchTimeout(time.Second),
			),
		)
	}
	httpExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}
	opts = append(
		opts,
		trace.WithBatcher(
			httpExporter,
			trace.WithBatchTimeout(time.Second),
		),
	)
	traceProvider := trace.NewTracerProvider(opts...)
	return traceProvider, nil
}
