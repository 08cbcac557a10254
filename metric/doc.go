// Package metric defines the metric contract and the engine driving metrics
// across batches.
//
// Every Metric can rebuild its state from a graph (Recompute). A metric that
// also implements Incremental receives four hooks around each batch:
//
//	BeforeBatch → (BeforeUpdate → mutation → AfterUpdate)* → AfterBatch
//
// Any hook returning false makes the engine Recompute the metric for that
// batch. Stale incremental state is never reported.
//
// Applicability is checked before any hook. A metric not applicable to the
// graph is dropped for the whole run. A metric not applicable to one batch is
// skipped for that batch, left out of its output and rebuilt from scratch on
// the next applicable batch.
//
// The reference metrics in this package come in R (recompute) and U
// (incremental) variants of the same kind, so Equal can check one against the
// other:
//
//	DegreeDistributionR / DegreeDistributionU
//	WeakConnectivityR / WeakConnectivityU
//	RootMeanSquareDeviationR / RootMeanSquareDeviationU
//	JaccardUndirectedIntWeightedR / JaccardUndirectedIntWeightedU
//	UnweightedAllPairsShortestPathsR
//	Aggregate
//
// DFSWorkload reports no graph property. It runs depth-first searches from
// random nodes so the profiler sees a traversal workload.
package metric
