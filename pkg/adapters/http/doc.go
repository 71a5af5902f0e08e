// Package http serves analysis reports, concurrent space queries, Mermaid
// graphs and Prometheus metrics over a chi router.
package http
