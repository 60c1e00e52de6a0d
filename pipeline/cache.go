package pipeline

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/lrdatalab/ingresos_backend/config"
	"bitbucket.org/lrdatalab/ingresos_backend/reports"
)

// Finished reports are cached per window so re-invocations inside the TTL
// (retries of the mail step, ad hoc re-pulls) skip the cross-tenant
// extraction. The cache is bypassed automatically when redis is not
// configured.

func reportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func reportCacheTTL() time.Duration {
	// Env: REPORT_CACHE_TTL_SECONDS (default 600s)
	ttl := 600
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

func cacheKey(w reports.Window) string {
	return "ingresos:report:" + w.String()
}

func cachedRun(w reports.Window) (*RunResult, bool) {
	if !reportCacheEnabled() {
		return nil, false
	}
	var result RunResult
	found, err := config.GetRedisObject(cacheKey(w), &result)
	if err != nil || !found {
		return nil, false
	}
	return &result, true
}

func cacheRun(w reports.Window, result *RunResult) {
	if !reportCacheEnabled() || !cacheableRun(result) {
		return
	}
	// Cache failures are not run failures.
	_ = config.SetRedisObject(cacheKey(w), result, reportCacheTTL())
}

// cacheableRun reports whether a result may be served to later invocations.
// Partial results are never cached: a retry inside the TTL must re-attempt
// the failed tenants instead of replaying the degraded report.
func cacheableRun(result *RunResult) bool {
	return !result.Partial
}

// InvalidateCachedRun drops the cached report for one window, forcing the
// next invocation to re-extract.
func InvalidateCachedRun(w reports.Window) error {
	return config.RemoveRedisKey(cacheKey(w))
}
