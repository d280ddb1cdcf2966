// Package metrics records release timings and outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so the pipeline never checks whether metrics are enabled:
//
//	pipeline := release.NewPipeline(runner).
//	    WithObserver(release.RecorderObserver{Recorder: metrics.NewPrometheusRecorder(reg)})
//
// A release is a short-lived process, so there is no scrape endpoint. Instead
// WriteTextfile dumps the registry in the text exposition format for the
// node_exporter textfile collector (or any other file-based scraper).
package metrics
