// Package aggregates defines the write boundaries of the core: each aggregate
// owns one transaction per call and the invariants that must hold when it commits.
package aggregates
