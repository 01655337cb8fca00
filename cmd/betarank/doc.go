// Package main hosts the betarank CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the BetaSeries client, harvester, and exporter from it, and reports
// results on stdout while logs go to stderr. Heavy lifting lives in the
// internal packages; commands here only wire them together.
package main
