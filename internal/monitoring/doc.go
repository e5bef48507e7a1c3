// Package monitoring provides Prometheus metrics and recording helpers for
// the stockroom web server.
//
// All metrics follow the naming convention stockroom_<component>_<metric>_<unit>
// and are registered on the package Registry, which Handler serves. The Go
// runtime and process collectors are registered alongside them.
//
// Usage in handlers:
//
//	monitoring.RecordProductMutation("create", err)
//	monitoring.RecordAuthEvent("login", err)
//
// Usage in middleware:
//
//	monitoring.RecordHTTPRequest(method, route, status, elapsed)
package monitoring
