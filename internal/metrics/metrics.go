// Package metrics tracks counters for one review invocation.
package metrics

import (
	"sync/atomic"
)

// Metrics tracks operational metrics.
type Metrics struct {
	CIAdopted         uint64 `json:"ci_adopted"`
	WorkspacesReused  uint64 `json:"workspaces_reused"`
	ClonesStarted     uint64 `json:"clones_started"`
	CheckoutFallbacks uint64 `json:"checkout_fallbacks"`
	ReviewsCompleted  uint64 `json:"reviews_completed"`
	ReviewsFailed     uint64 `json:"reviews_failed"`
}

var global = &Metrics{}

// CIAdopted increments the count of CI-provided workspaces adopted.
func CIAdopted() { atomic.AddUint64(&global.CIAdopted, 1) }

// WorkspaceReused increments the count of persistent workspaces refreshed
// via fetch instead of a fresh clone.
func WorkspaceReused() { atomic.AddUint64(&global.WorkspacesReused, 1) }

// CloneStarted increments the count of fresh clones.
func CloneStarted() { atomic.AddUint64(&global.ClonesStarted, 1) }

// CheckoutFallback increments the count of checkouts that needed a
// fallback strategy.
func CheckoutFallback() { atomic.AddUint64(&global.CheckoutFallbacks, 1) }

// ReviewCompleted increments the count of reviews that produced output.
func ReviewCompleted() { atomic.AddUint64(&global.ReviewsCompleted, 1) }

// ReviewFailed increments the count of reviews that errored.
func ReviewFailed() { atomic.AddUint64(&global.ReviewsFailed, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		CIAdopted:         atomic.LoadUint64(&global.CIAdopted),
		WorkspacesReused:  atomic.LoadUint64(&global.WorkspacesReused),
		ClonesStarted:     atomic.LoadUint64(&global.ClonesStarted),
		CheckoutFallbacks: atomic.LoadUint64(&global.CheckoutFallbacks),
		ReviewsCompleted:  atomic.LoadUint64(&global.ReviewsCompleted),
		ReviewsFailed:     atomic.LoadUint64(&global.ReviewsFailed),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.CIAdopted, 0)
	atomic.StoreUint64(&global.WorkspacesReused, 0)
	atomic.StoreUint64(&global.ClonesStarted, 0)
	atomic.StoreUint64(&global.CheckoutFallbacks, 0)
	atomic.StoreUint64(&global.ReviewsCompleted, 0)
	atomic.StoreUint64(&global.ReviewsFailed, 0)
}
