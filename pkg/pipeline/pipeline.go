// Package pipeline provides the core layout run for Varigrid.
//
// This package implements the complete scan → validate → plan → apply run
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The run consists of four stages:
//
//  1. Scan: Collect attribute-tagged variants from each container in scope
//  2. Validate: Gate on rotation, then check each set for duplicates and
//     missing axis attributes
//  3. Plan: Compute the canonical-key → coordinate mapping per set
//  4. Apply: Write positions, re-sequence children, and resize containers
//
// Validation findings split two ways: a non-zero rotation anywhere in scope
// aborts the whole run before any mutation, while duplicate keys and missing
// attributes skip only the affected set.
//
// # Usage
//
// Create a Runner and execute the run:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Config: layout.Default(),
//	    Scope:  pipeline.ScopeSelection,
//	}
//	result, err := runner.Execute(ctx, host, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Plan a single set without mutating anything:
//
//	plan, err := runner.Plan(ctx, info, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/varigrid/varigrid/pkg/cache"
	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/layout"
)

// =============================================================================
// Scope - Which Containers a Run Covers
// =============================================================================

const (
	// ScopeSelection arranges only the host's currently selected containers.
	ScopeSelection = "selection"

	// ScopeAll arranges every container in the document and then spaces the
	// containers themselves horizontally.
	ScopeAll = "all"
)

// ValidScopes is the set of supported run scopes.
var ValidScopes = map[string]bool{
	ScopeSelection: true,
	ScopeAll:       true,
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for a layout run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Config carries the layout parameters.
	Config layout.Config `json:"config"`

	// Scope selects the containers to arrange: "selection" or "all".
	Scope string `json:"scope,omitempty"`

	// Refresh bypasses the plan cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// RunID correlates log lines and notifications for one run.
	// Generated when empty.
	RunID string `json:"run_id,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Config.Normalize()
	if o.Config.CellSize == 0 {
		// CellSize is the only numeric field that cannot legally be zero.
		// Callers wanting full defaults start from layout.Default().
		o.Config.CellSize = layout.DefaultCellSize
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Scope == "" {
		o.Scope = ScopeSelection
	}
	if !ValidScopes[o.Scope] {
		return errors.New(errors.ErrCodeInvalidConfig, "scope must be %q or %q, got %q", ScopeSelection, ScopeAll, o.Scope)
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// PlanKeyOpts returns cache key options for plan computation.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Padding:        o.Config.Padding,
		CellSize:       o.Config.CellSize,
		BlockGap:       o.Config.BlockGap,
		SortDescending: o.Config.SortDescending,
		VAlign:         o.Config.VAlign,
		SetAttr:        o.Config.Attributes.Set,
		StyleAttr:      o.Config.Attributes.Style,
		ColorAttr:      o.Config.Attributes.Color,
		SizeAttr:       o.Config.Attributes.Size,
	}
}

// =============================================================================
// Result - Run Outputs
// =============================================================================

// Result contains the outputs of a layout run.
type Result struct {
	// RunID is the identifier correlating this run's log lines.
	RunID string `json:"run_id"`

	// Arranged lists the names of containers that were laid out, in
	// processing order.
	Arranged []string `json:"arranged"`

	// Skipped lists per-set validation findings that excluded a container.
	Skipped []SetIssue `json:"skipped,omitempty"`

	// Plans holds the computed plan per arranged container name.
	Plans map[string]map[string]layout.Point `json:"plans,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks plan cache effectiveness.
	CacheInfo CacheInfo `json:"cache_info"`
}

// SetIssue describes why one container was skipped.
type SetIssue struct {
	Set     string      `json:"set"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Stats contains run execution statistics.
type Stats struct {
	SetCount     int           `json:"set_count"`
	VariantCount int           `json:"variant_count"`
	ScanTime     time.Duration `json:"scan_time"`
	PlanTime     time.Duration `json:"plan_time"`
	ApplyTime    time.Duration `json:"apply_time"`
}

// CacheInfo tracks plan cache hits across the run.
type CacheInfo struct {
	PlanHits   int `json:"plan_hits"`
	PlanMisses int `json:"plan_misses"`
}
