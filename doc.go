// Package tempograph keeps graph metrics current while the graph evolves,
// one batch of updates at a time.
//
// 🚀 What is tempograph?
//
//	A thread-safe in-memory graph plus a metric engine that:
//		• applies batches of node/edge additions, removals and weight changes
//		• updates metrics incrementally, or recomputes them when it must
//		• writes every snapshot to a series directory (plain or zipped)
//		• profiles list accesses and recommends a faster storage strategy
//		• splits a graph into partitions and collates the workers' output
//
// Packages:
//
//	weight/         scalar, 2D and 3D weights with parsing and distance
//	datastructure/  integer containers (HashSet, IndexedSet, SortedList…) and strategies
//	core/           Graph, Node, Edge and the access observer hook
//	update/         updates, batches, validation and the batch text codec
//	builder/        generated graphs (path, cycle, star, random) and batches
//	bfs/, dfs/      traversals used by connectivity and path metrics
//	metric/         the metric contract, built-in metrics and the Engine
//	series/         on-disk snapshot format and run metadata
//	profiler/       access counting and strategy recommendation
//	parallel/       Splitter, aux data and Collation
//	session/        single and partitioned runs that write series
//	config/         YAML/env configuration and logging
//	cmd/tempograph  the command line
//
// Quick example:
//
//	g, _ := builder.BuildGraph(nil, nil, builder.Cycle(5))
//	e, _ := metric.NewEngine([]metric.Metric{metric.NewDegreeDistributionU()})
//	_, _ = e.Init(g)
//	b := update.NewBatch(0, 1, update.NodeRemoval{Node: core.Node{Index: 0}})
//	rep, _ := e.ApplyBatch(g, b)
//
//	go get github.com/katalvlaran/tempograph
package tempograph
