// Package metrics exposes the Prometheus collectors of the reconciliation
// service and a Fiber handler serving them.
//
// Collectors live on their own registry so tests can build independent
// instances without clashing on the global default registry.
package metrics
