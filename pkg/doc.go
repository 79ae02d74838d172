// Package pkg provides the core libraries for Varigrid variant-set layout.
//
// # Overview
//
// Varigrid arranges attribute-tagged variants inside their set containers
// into deterministic grids. The pkg directory is organized into three main
// areas:
//
//  1. Domain logic (variant analysis, validation, grid planning and apply)
//  2. Infrastructure (caching, structured errors, observability hooks)
//  3. Orchestration (the pipeline runner used by CLI and API)
//
// # Architecture
//
// The typical data flow through a run:
//
//	Document (variant-set containers)
//	         ↓
//	    [variant] package (scan attributes into analysis results)
//	         ↓
//	    [validate] package (rotation gate, required axes, duplicate keys)
//	         ↓
//	    [layout] package (plan the grid, apply positions and resizing)
//	         ↓
//	    Arranged document
//
// # Main Packages
//
// [variant] - Attribute analysis. Collects variants into a per-set analysis
// result with sorted property keys and canonical keys.
//
// [validate] - Pre-flight checks: non-zero rotation detection, required axis
// attributes, duplicate canonical keys.
//
// [layout] - The planner (pure function from analysis result and config to a
// canonical-key → coordinate mapping) and the applier (positions, storage
// reordering, padded bounding box).
//
// [document] - Capability interfaces for document hosts plus an in-memory
// implementation and the JSON serialization format.
//
// [report] - The styled rotation report inserted into documents and its
// terminal rendering.
//
// [pipeline] - Orchestration of scan → validate → plan → apply with plan
// caching, used by CLI and API. Ensures consistent behavior across all entry
// points.
//
// [cache] - Cache backends for computed plans: file (CLI), Redis and MongoDB
// (server deployments), null (disabled).
//
// [errors] - Structured errors with machine-readable codes shared across
// CLI, API, and pipeline.
//
// [observability] - Hook interfaces for run, cache, and HTTP events with
// no-op defaults.
//
// [variant]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/variant
// [validate]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/validate
// [layout]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/layout
// [document]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/document
// [report]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/report
// [pipeline]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/cache
// [errors]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/varigrid/varigrid/pkg/observability
package pkg
