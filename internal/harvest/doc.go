// Package harvest builds the rated item collection for ranking.
//
// Movies come from /movies/list followed by one detail lookup per movie;
// shows carry their ratings in the list response. A failed detail lookup
// drops that movie and the rest continue. A failed list request is logged
// and that content kind contributes nothing.
package harvest
