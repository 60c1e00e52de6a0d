package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"bitbucket.org/lrdatalab/ingresos_backend/config"
	"bitbucket.org/lrdatalab/ingresos_backend/reports"
	"bitbucket.org/lrdatalab/ingresos_backend/utils"
)

var tracer = otel.Tracer("pipeline/runner")

const moduleName = "pipeline"

// TenantFailure enumerates one degraded tenant on a partial run.
type TenantFailure struct {
	TenantKey string `json:"tenant_key"`
	Reason    string `json:"reason"`
}

// RunResult is the outcome of one report run. Partial is true when at least
// one tenant was dropped; the report is then explicitly flagged, never
// silently smaller.
type RunResult struct {
	RunID           string               `json:"run_id"`
	Window          reports.Window       `json:"window"`
	Rows            []reports.IncomeRow  `json:"rows"`
	Partial         bool                 `json:"partial"`
	DegradedTenants []TenantFailure      `json:"degraded_tenants"`
	Warnings        []IntegrityWarning   `json:"warnings"`
	StartedAt       time.Time            `json:"started_at"`
	Duration        time.Duration        `json:"duration"`
	FromCache       bool                 `json:"from_cache"`
}

// Runner federates the configured tenants into one report. Tenants are
// extracted in parallel; the only shared state during a run is the read-only
// dimension lookup.
type Runner struct {
	extractors      []Extractor
	dims            *Dimensions
	prices          AreaPriceTable
	qualifierTokens []string
	finalizeOpts    FinalizeOptions
	timeout         time.Duration
	abortOnFailure  bool
	logger          *logrus.Logger
}

func NewRunner(extractors []Extractor, dims *Dimensions, settings *config.Settings) *Runner {
	return &Runner{
		extractors:      extractors,
		dims:            dims,
		prices:          NewAreaPriceTable(settings.AreaPriceRules),
		qualifierTokens: settings.AdvisorQualifierTokens,
		finalizeOpts: FinalizeOptions{
			ExcludedDevelopments:      settings.ExcludedDevelopments,
			ExcludedBrands:            settings.ExcludedBrands,
			CustomerExclusionPatterns: settings.CustomerExclusionPatterns,
		},
		timeout:        time.Duration(settings.ExtractionTimeoutSeconds) * time.Second,
		abortOnFailure: settings.AbortOnTenantFailure,
		logger:         config.GetLogger(),
	}
}

// Run executes the full pipeline for one report window. A tenant extraction
// failure either degrades the run (default) or aborts it, per configuration;
// a run where every tenant failed always returns an error and no report.
func (r *Runner) Run(ctx context.Context, window reports.Window) (*RunResult, error) {
	runID := uuid.NewString()
	ctx = utils.WithRunId(ctx, runID)

	ctx, span := tracer.Start(ctx, "report.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("report.run_id", runID),
		attribute.Int("report.year", window.Year),
		attribute.Int("report.month", int(window.Month)),
	)

	started := time.Now()
	r.logger.WithFields(logrus.Fields{
		"module":  moduleName,
		"run_id":  runID,
		"window":  window.String(),
		"tenants": len(r.extractors),
	}).Info("report run started")

	if cached, ok := cachedRun(window); ok {
		cached.FromCache = true
		r.logger.WithFields(logrus.Fields{
			"module": moduleName,
			"run_id": runID,
			"window": window.String(),
		}).Info("report served from cache")
		return cached, nil
	}

	release, err := r.obtainRunLock(ctx, window)
	if err != nil {
		return nil, err
	}
	defer release()

	rowsByTenant := make(map[string][]reports.IncomeRow, len(r.extractors))
	var (
		mu       sync.Mutex
		failures []TenantFailure
		warnings []IntegrityWarning
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, ex := range r.extractors {
		ex := ex
		g.Go(func() error {
			rows, warns, err := r.runTenant(gCtx, ex, window)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, TenantFailure{TenantKey: ex.TenantKey(), Reason: err.Error()})
				if r.abortOnFailure {
					return err
				}
				return nil
			}
			rowsByTenant[ex.TenantKey()] = rows
			warnings = append(warnings, warns...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(rowsByTenant) == 0 {
		config.LogError(r.logger, moduleName, "Run", "no tenant produced rows", failures, utils.ErrorAllTenantsFailed)
		return nil, utils.ErrorAllTenantsFailed
	}

	// Merge in sorted tenant order; the final sort makes the output
	// deterministic either way, but a stable merge keeps logs and diffs
	// readable.
	keys := make([]string, 0, len(rowsByTenant))
	for k := range rowsByTenant {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tenantRows := make([][]reports.IncomeRow, 0, len(keys))
	for _, k := range keys {
		tenantRows = append(tenantRows, rowsByTenant[k])
	}

	merged := Merge(tenantRows...)
	final := Finalize(merged, window, r.finalizeOpts)

	sort.Slice(failures, func(i, j int) bool { return failures[i].TenantKey < failures[j].TenantKey })
	result := &RunResult{
		RunID:           runID,
		Window:          window,
		Rows:            final,
		Partial:         len(failures) > 0,
		DegradedTenants: failures,
		Warnings:        warnings,
		StartedAt:       started,
		Duration:        time.Since(started),
	}
	cacheRun(window, result)

	r.logger.WithFields(logrus.Fields{
		"module":           moduleName,
		"run_id":           runID,
		"window":           window.String(),
		"rows":             len(final),
		"partial":          result.Partial,
		"degraded_tenants": len(failures),
		"warnings":         len(warnings),
		"duration_ms":      result.Duration.Milliseconds(),
	}).Info("report run finished")

	return result, nil
}

func (r *Runner) runTenant(ctx context.Context, ex Extractor, window reports.Window) ([]reports.IncomeRow, []IntegrityWarning, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "report.extract_tenant")
	defer span.End()
	span.SetAttributes(attribute.String("report.tenant", ex.TenantKey()))

	ds, warnings, err := extractTenant(ctx, ex)
	if err != nil {
		config.LogError(r.logger, moduleName, "runTenant", "tenant extraction failed", ex.TenantKey(), err)
		return nil, nil, err
	}

	rows, assemblyWarnings := assembleRows(ds, r.dims, r.prices, r.qualifierTokens)
	warnings = append(warnings, assemblyWarnings...)
	for _, w := range warnings {
		config.LogWarn(r.logger, moduleName, "runTenant", "data integrity warning", w, w.Message)
	}

	runID, _ := utils.GetRunIdFromContext(ctx)
	r.logger.WithFields(logrus.Fields{
		"module": moduleName,
		"run_id": runID,
		"tenant": ex.TenantKey(),
		"window": window.String(),
		"rows":   len(rows),
	}).Debug("tenant extraction finished")

	return rows, warnings, nil
}

// obtainRunLock serializes runs per window through redis. When redis is not
// configured the lock degrades to a no-op.
func (r *Runner) obtainRunLock(ctx context.Context, window reports.Window) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}
	lockKey := "ingresos:run:" + window.String()
	lock, err := locker.Obtain(ctx, lockKey, r.timeout+time.Minute, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(r.logger, moduleName, "obtainRunLock", "could not obtain run lock", lockKey, err)
		return nil, utils.ErrorRunLocked
	} else if err != nil {
		config.LogError(r.logger, moduleName, "obtainRunLock", "error obtaining run lock", lockKey, err)
		return nil, err
	}
	return func() { _ = lock.Release(ctx) }, nil
}
