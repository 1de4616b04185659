// Package services implements the business logic layer of the transform
// service. It provides a clean separation between HTTP handlers and the
// pipeline, ensuring that business rules are centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// The TransformService merges per-request configuration over process
// defaults, delegates to the pipeline, records Prometheus metrics, and
// drives the extract-service client for batch fetches. The HealthService
// reports process health; the pipeline itself has no external state to
// probe.
package services
