package pipeline

import (
	"sort"
	"strings"

	"bitbucket.org/lrdatalab/ingresos_backend/reports"
)

// FinalizeOptions are the business exclusion rules, supplied by
// configuration rather than hardcoded.
type FinalizeOptions struct {
	// ExcludedDevelopments drops rows whose resolved development display
	// name is in the set.
	ExcludedDevelopments []string

	// ExcludedBrands drops rows whose resolved brand is in the set.
	ExcludedBrands []string

	// CustomerExclusionPatterns drops rows whose customer display name
	// contains any pattern. Matching is case-sensitive ("Prueba" does not
	// match "prueba").
	CustomerExclusionPatterns []string
}

// Finalize produces the reporting-ready table from the merged relation, in
// order: exclusion predicates, window selection on the ingress date,
// full-tuple deduplication, deterministic sort. Diacritic folding of the
// customer display name happens here, after exclusions, so everything
// earlier stays accent-sensitive.
func Finalize(rows []reports.IncomeRow, window reports.Window, opts FinalizeOptions) []reports.IncomeRow {
	excludedDev := make(map[string]bool, len(opts.ExcludedDevelopments))
	for _, d := range opts.ExcludedDevelopments {
		excludedDev[d] = true
	}
	excludedBrand := make(map[string]bool, len(opts.ExcludedBrands))
	for _, b := range opts.ExcludedBrands {
		excludedBrand[b] = true
	}

	seen := make(map[reports.BusinessKey]bool, len(rows))
	out := make([]reports.IncomeRow, 0, len(rows))

	for _, r := range rows {
		if excludedCustomer(r.CustomerName, opts.CustomerExclusionPatterns) {
			continue
		}
		if r.Development != nil && excludedDev[*r.Development] {
			continue
		}
		if r.Brand != nil && excludedBrand[*r.Brand] {
			continue
		}
		// An absent ingress date never matches any window.
		if r.IngressDate == nil {
			continue
		}
		if r.IngressDate.Year() != window.Year || r.IngressDate.Month() != window.Month {
			continue
		}

		r.CustomerName = FoldDiacritics(r.CustomerName)

		// Exact-tuple dedup: collapses fan-out duplicates, keeps rows that
		// differ in any single field.
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.CreatedDate == nil && b.CreatedDate == nil:
			// fall through to tie-break
		case a.CreatedDate == nil:
			return false
		case b.CreatedDate == nil:
			return true
		case !a.CreatedDate.Equal(*b.CreatedDate):
			return a.CreatedDate.Before(*b.CreatedDate)
		}
		// Tie-break keeps re-runs byte-identical.
		if a.TenantKey != b.TenantKey {
			return a.TenantKey < b.TenantKey
		}
		return a.IncomeID < b.IncomeID
	})

	return out
}

func excludedCustomer(name string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	return false
}
