// Package aggregates implements the domain aggregate contracts on top of the
// table repos in internal/data/repos.
//
// Every write runs inside one transaction opened by the aggregate. Cascading
// deletes go through internal/data/cascade so the policy table is the only
// place that decides what a delete touches.
package aggregates
