package utils

import "errors"

var (
	// ErrorAllTenantsFailed means no tenant extraction succeeded; there is
	// no report to return, partial or otherwise.
	ErrorAllTenantsFailed = errors.New("all tenant extractions failed")

	// ErrorRunLocked means another report run holds the lock for the same
	// window.
	ErrorRunLocked = errors.New("a report run for this window is already in progress")
)
