// Package metrics provides build metrics for sitebuilder.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	gen := hugo.NewGenerator(cfg, plugin).SetRecorder(rec)
//
// When monitoring.metrics.textfile is configured the registry is written in
// the node_exporter textfile format after every build (see WriteTextfile).
package metrics
