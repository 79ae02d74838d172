package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/varigrid/varigrid/pkg/cache"
	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/observability"
	"github.com/varigrid/varigrid/pkg/report"
	"github.com/varigrid/varigrid/pkg/validate"
	"github.com/varigrid/varigrid/pkg/variant"
)

// reportGap separates an inserted rotation report from the container below it.
const reportGap = 40.0

// Runner encapsulates run execution with plan caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// scannedSet pairs a container with its scan result.
type scannedSet struct {
	c          document.Container
	info       variant.Info
	childCount int
}

// Execute runs the complete scan → validate → plan → apply run against the
// host. Rotation findings abort before any mutation; per-set findings skip
// the affected container and the run continues.
func (r *Runner) Execute(ctx context.Context, host document.Host, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger.With("run_id", opts.RunID)

	containers, err := r.scope(ctx, host, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID: opts.RunID,
		Plans: make(map[string]map[string]layout.Point),
	}
	result.Stats.SetCount = len(containers)

	// Stage 1: Scan everything in scope before touching anything.
	scanStart := time.Now()
	sets := make([]scannedSet, 0, len(containers))
	for _, c := range containers {
		observability.Run().OnScanStart(ctx, c.Name())
		start := time.Now()
		info, childCount := Scan(c)
		observability.Run().OnScanComplete(ctx, c.Name(), len(info.Variants), time.Since(start))
		sets = append(sets, scannedSet{c: c, info: info, childCount: childCount})
		result.Stats.VariantCount += len(info.Variants)
	}
	result.Stats.ScanTime = time.Since(scanStart)

	logger.Info("scanned containers",
		"sets", len(sets),
		"variants", result.Stats.VariantCount,
		"duration", result.Stats.ScanTime)

	// Stage 2: Rotation gate across the whole scope.
	if err := r.rotationGate(ctx, host, sets, logger); err != nil {
		return nil, err
	}

	// Stages 3-4: Per-set validation, plan, apply.
	baseX := 0.0
	for _, s := range sets {
		name := s.c.Name()

		if err := r.validateSet(s, opts); err != nil {
			observability.Run().OnValidateComplete(ctx, name, err)
			if errors.IsPerSet(err) {
				r.skip(host, result, name, err, logger)
				continue
			}
			return nil, err
		}
		observability.Run().OnValidateComplete(ctx, name, nil)

		planStart := time.Now()
		plan, hit, err := r.PlanWithCacheInfo(ctx, s.info, opts)
		observability.Run().OnPlanComplete(ctx, name, time.Since(planStart), err)
		result.Stats.PlanTime += time.Since(planStart)
		if err != nil {
			if errors.IsPerSet(err) {
				r.skip(host, result, name, err, logger)
				continue
			}
			return nil, fmt.Errorf("plan %s: %w", name, err)
		}
		if hit {
			result.CacheInfo.PlanHits++
		} else {
			result.CacheInfo.PlanMisses++
		}

		applyStart := time.Now()
		err = layout.Apply(s.info, plan, s.c, opts.Config)
		observability.Run().OnApplyComplete(ctx, name, time.Since(applyStart), err)
		result.Stats.ApplyTime += time.Since(applyStart)
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", name, err)
		}

		result.Arranged = append(result.Arranged, name)
		result.Plans[name] = plan

		logger.Info("arranged set",
			"set", name,
			"variants", len(s.info.Variants),
			"cache_hit", hit)

		// Whole-document runs also space the containers themselves.
		if opts.Scope == ScopeAll {
			s.c.SetPosition(baseX, 0)
			w, _ := s.c.Size()
			baseX += w + opts.Config.InterSetGap
		}
	}

	if len(result.Arranged) == 0 {
		host.Notify("No variant sets could be arranged")
		return nil, errors.New(errors.ErrCodeNothingProcessed,
			"all %d containers in scope were skipped", len(sets))
	}

	host.Notify(fmt.Sprintf("Arranged %d variant sets (%d skipped)",
		len(result.Arranged), len(result.Skipped)))

	logger.Info("run complete",
		"arranged", len(result.Arranged),
		"skipped", len(result.Skipped),
		"plan_hits", result.CacheInfo.PlanHits)

	return result, nil
}

// scope resolves the containers the run covers, in name order.
func (r *Runner) scope(ctx context.Context, host document.Host, opts Options) ([]document.Container, error) {
	var (
		containers []document.Container
		err        error
	)
	if opts.Scope == ScopeAll {
		containers, err = host.Containers(ctx)
	} else {
		containers, err = host.Selection(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}
	slices.SortStableFunc(containers, func(a, b document.Container) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return containers, nil
}

// rotationGate aborts the run when any variant in scope carries a non-zero
// rotation. The findings are grouped per set into a styled report placed
// above the first offending container; placement failure degrades to a
// notification and never masks the abort.
func (r *Runner) rotationGate(ctx context.Context, host document.Host, sets []scannedSet, logger *log.Logger) error {
	var (
		groups   []report.Group
		offender []string
		first    document.Container
	)
	for _, s := range sets {
		var names []string
		for _, v := range s.info.Variants {
			if !validate.Conforming(v.Rotation) {
				names = append(names, v.Name)
				offender = append(offender, v.NodeID)
			}
		}
		if len(names) > 0 {
			groups = append(groups, report.Group{Name: s.c.Name(), Items: names})
			if first == nil {
				first = s.c
			}
		}
	}
	if len(groups) == 0 {
		return nil
	}

	payload := report.Build(groups)
	x, y := first.Position()
	lines := strings.Count(payload.Text, "\n") + 1
	height := float64(lines) * payload.FontSize * 1.4
	if err := host.InsertReport(ctx, payload, x, y-height-reportGap); err != nil {
		logger.Warn("report insertion failed, notifying instead", "error", err)
	}
	host.Notify(report.Title)
	host.Reveal(offender)

	logger.Error("rotation gate failed", "sets", len(groups), "variants", len(offender))
	return errors.New(errors.ErrCodeRotation,
		"%d variants have non-zero rotation", len(offender))
}

// validateSet runs the per-set checks in finding order: emptiness, required
// axes, duplicate keys.
func (r *Runner) validateSet(s scannedSet, opts Options) error {
	if err := CheckSet(s.info, s.childCount); err != nil {
		return err
	}
	if missing := validate.CheckRequired(s.info, opts.Config.Attributes); len(missing) > 0 {
		return errors.New(errors.ErrCodeMissingAttributes,
			"no variant carries: %s", strings.Join(missing, ", "))
	}
	if key, dup := validate.CheckDuplicates(s.info); dup {
		return errors.New(errors.ErrCodeDuplicateKey,
			"multiple variants share key %q", key)
	}
	return nil
}

// skip records a per-set finding and tells the user which set was left alone.
func (r *Runner) skip(host document.Host, result *Result, name string, err error, logger *log.Logger) {
	issue := SetIssue{Set: name, Code: errors.GetCode(err), Message: err.Error()}
	result.Skipped = append(result.Skipped, issue)
	host.Notify(fmt.Sprintf("Skipped %s: %s", name, issue.Message))
	logger.Warn("skipped set", "set", name, "code", issue.Code, "reason", issue.Message)
}

// PlanWithCacheInfo computes a set's plan with caching and returns cache hit
// info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, info variant.Info, opts Options) (map[string]layout.Point, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.PlanKey(InfoHash(info), opts.PlanKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached map[string]layout.Point
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "plan")

	plan, err := layout.Plan(info, opts.Config)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(plan); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.PlanTTL)
		observability.Cache().OnCacheSet(ctx, "plan", len(data))
	}

	return plan, false, nil
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards the
// cache hit info.
func (r *Runner) Plan(ctx context.Context, info variant.Info, opts Options) (map[string]layout.Point, error) {
	plan, _, err := r.PlanWithCacheInfo(ctx, info, opts)
	return plan, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
