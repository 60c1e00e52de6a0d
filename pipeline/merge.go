package pipeline

import "bitbucket.org/lrdatalab/ingresos_backend/reports"

// Merge concatenates the per-tenant result sets into one relation. Every
// adapter already emits the exact unified row shape, so this is a structural
// union with no normalization and no deduplication: sale ids may collide
// across tenants, and rows stay traceable through their tenant key. The
// multiset of merged rows does not depend on tenant order.
func Merge(tenantResults ...[]reports.IncomeRow) []reports.IncomeRow {
	total := 0
	for _, rs := range tenantResults {
		total += len(rs)
	}
	merged := make([]reports.IncomeRow, 0, total)
	for _, rs := range tenantResults {
		merged = append(merged, rs...)
	}
	return merged
}
