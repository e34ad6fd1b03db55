// Package metrics records extraction run metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics stay
// optional without nil checks at call sites:
//
//	p := pipeline.New(opts, pipeline.WithRecorder(metrics.NewPrometheusRecorder(nil)))
//
// The Prometheus implementation is written to a node-exporter textfile after
// each run; there is no HTTP endpoint.
package metrics
