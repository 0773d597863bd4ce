// Package metrics provides observability hooks for page resolution and compilation.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	compiler := markdown.NewCompiler(markdown.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder registers its collectors on the given registry and
// HTTPHandler serves that registry on the metrics endpoint.
package metrics
