// Package core contains canonical bridge domain contracts, entities, and
// submission orchestration logic. Lower-level adapters must depend on this
// package; core must not depend on store-specific or transport-specific
// adapters.
package core
