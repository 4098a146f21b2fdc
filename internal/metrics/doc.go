// Package metrics provides build metrics for conversion runs.
//
// Components receive a Recorder. NoopRecorder is the default and does nothing,
// so callers never need nil checks. PrometheusRecorder registers its collectors
// on a caller-supplied registry; WriteTextfile dumps that registry in the
// node_exporter textfile format after each build.
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run builds with rec ...
//	_ = metrics.WriteTextfile("/var/lib/node_exporter/docpages.prom", reg)
package metrics
