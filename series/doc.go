// Package series holds the metric result data model and its on-disk layout.
//
// A run directory contains one entry per timestamp, either a directory
// "batch.<ts>/" or an archive "batch.<ts>.zip", plus a series.yaml describing
// the run. Each batch holds the graph statistics, general and per-metric
// runtimes, and one sub-directory per metric with its scalar values,
// distributions, node value lists and node-node value lists.
//
// Two read modes exist: ReadAll for comparisons and collation, and
// ReadValuesOnly for cheap summary scans.
//
// Errors:
//
//	ErrMalformed     - a persisted file could not be decoded (file:line in message).
//	ErrBatchNotFound - neither form of the requested batch exists.
package series
