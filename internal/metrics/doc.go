// Package metrics holds the Prometheus collectors for the HTTP surface, the
// suggestion pipelines, and outbound provider calls. Collectors register on
// the default registry and are served by the /metrics route.
package metrics
