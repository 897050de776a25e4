// Package metrics provides an observability framework for ShardPress build metrics.
//
// # Design Philosophy
//
// This package implements the Null Object pattern to enable metrics collection
// without requiring explicit nil checks throughout the codebase. By default,
// all components use NoopRecorder which implements the Recorder interface with
// no-op methods that inline to nothing at compile time.
//
// # Architecture
//
// The metrics system has three components:
//
//  1. Recorder interface - Defines all metrics operations
//  2. NoopRecorder - Default implementation that does nothing (zero overhead)
//  3. PrometheusRecorder - Real implementation backed by a Prometheus registry
//
// # Usage Pattern
//
// Components receive a Recorder through dependency injection:
//
//	type Builder struct {
//	    recorder metrics.Recorder
//	}
//
//	func NewBuilder() *Builder {
//	    return &Builder{
//	        recorder: metrics.NoopRecorder{}, // Default: no metrics
//	    }
//	}
//
// # Activation
//
// To enable metrics, swap NoopRecorder for a real implementation:
//
//	// When Prometheus is configured
//	recorder := metrics.NewPrometheusRecorder(registry)
//	builder := NewBuilder().SetRecorder(recorder)
//
// This approach allows:
//   - Zero overhead when metrics are disabled (noop methods inline away)
//   - Metrics activation without code changes (just swap implementation)
//   - Clean testing (inject mock recorder for verification)
//   - Gradual rollout (enable metrics per-component)
//
// # Exposition
//
// A build is a one-shot job with no endpoint to scrape, so instead of an HTTP
// handler the package exposes WriteTextfile, which dumps the registry in the
// Prometheus text format after a build. The output is compatible with the
// node_exporter textfile collector. The build command activates this with the
// --metrics-file flag; without it everything runs on NoopRecorder.
package metrics
