// Package ranking scores rated catalog items with a Bayesian weighted
// average and orders them into a leaderboard.
//
// The score blends an item's own mean rating R with the collection-wide
// mean C, weighted by the item's vote count v against a popularity
// threshold m:
//
//	score = (R*v + C*m) / (v + m)
//
// C and m are recomputed from the collection on every call; nothing is
// cached between invocations.
package ranking
