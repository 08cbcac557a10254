package profiler

import (
	"github.com/katalvlaran/tempograph/datastructure"
)

// Recommendation is the outcome of Recommend.
type Recommendation struct {
	Strategy datastructure.Strategy
	// Estimate is the cost of the recorded profile under Strategy.
	Estimate float64
	// Baseline is the cost of the recorded profile under the strategy it ran with.
	Baseline float64
}

// Recommend picks, per list kind, the container with the lowest estimated cost
// for the accesses recorded in prof, evaluated for lists of n elements.
// Every container considered must also serve the accesses listed in required
// (pass core.RequiredAccesses() to stay constructible). Ties keep the
// container from current.
func Recommend(prof Profile, current datastructure.Strategy, workload datastructure.WorkloadKind, n int,
	required map[datastructure.ListKind][]datastructure.AccessKind) Recommendation {
	best := current
	for _, list := range datastructure.ListKinds() {
		if !prof.HasAccessesIn(list) {
			continue
		}
		chosen := current.Container(list)
		chosenCost := listCost(prof, list, chosen, workload, n)
		for _, k := range datastructure.ContainerKinds() {
			if !serves(k, required[list]) {
				continue
			}
			if c := listCost(prof, list, k, workload, n); c < chosenCost {
				chosen, chosenCost = k, c
			}
		}
		best = best.With(list, chosen)
	}

	return Recommendation{
		Strategy: best,
		Estimate: prof.CombinedComplexity(workload, best).Estimate(n),
		Baseline: prof.CombinedComplexity(workload, current).Estimate(n),
	}
}

func listCost(prof Profile, list datastructure.ListKind, k datastructure.ContainerKind,
	workload datastructure.WorkloadKind, n int) float64 {
	s := datastructure.Uniform(k)
	return prof.CombinedComplexity(workload, s, list).Estimate(n)
}

func serves(k datastructure.ContainerKind, accesses []datastructure.AccessKind) bool {
	for _, a := range accesses {
		if !datastructure.Supports(k, a) {
			return false
		}
	}
	return true
}
