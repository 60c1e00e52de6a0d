package pipeline

import "testing"

func TestCacheableRun_SkipsPartialResults(t *testing.T) {
	complete := &RunResult{Partial: false}
	if !cacheableRun(complete) {
		t.Fatal("complete runs must be cacheable")
	}

	degraded := &RunResult{
		Partial:         true,
		DegradedTenants: []TenantFailure{{TenantKey: "terra", Reason: "timeout"}},
	}
	if cacheableRun(degraded) {
		t.Fatal("partial runs must never be cached; retries have to re-attempt the failed tenants")
	}
}
