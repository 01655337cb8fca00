// Package preflight provides readiness checks for the BetaSeries API and the
// filesystem paths a ranking run writes to.
//
// The "betarank check" command runs RunAll and prints each Result. The rank
// command does not run these checks; it validates configuration up front and
// lets the fetch client report its own failures.
package preflight
