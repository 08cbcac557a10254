// Package parallel runs one evolving graph as several partitions and merges
// their per-partition metric output back into global results.
//
// A Splitter assigns every node to one partition and translates the initial
// graph and each batch into per-partition graphs and batches. Edges whose
// endpoints live in different partitions are boundary edges; they are tracked
// in AuxData rather than in any partition graph when partitions are Separated.
// Overlapping partitions additionally hold a read-only copy (a ghost) of every
// foreign endpoint, so each partition sees all edges of the nodes it owns.
//
// The splitting process publishes AuxData per timestamp: the complete data
// once ("init") and per batch the net additions ("add") and removals
// ("remove"). Each worker writes ordinary series batches. A Collation is a
// metric that, at every timestamp, polls the worker output and the AuxData
// deltas until all of it is present or a Sleeper times out, then hands the
// per-partition data to a Collator which merges it.
//
// File layout:
//
//	<aux dir>/<ts>.aux.<kind>.<init|add|remove>
//	<input template with PARTITION replaced>/run.<r>/batch.<ts>[.zip]
package parallel
