// Package instrument provides code42.Instrumenter implementations: an
// in-process notifier, a logger sink, a NATS publisher and Prometheus
// metrics. Multi fans a single event out to several of them.
package instrument
