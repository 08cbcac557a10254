// File: registry.go
// Role: The closed set of metric kinds selectable by name.

package metric

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMetricType is returned by New for a name outside the registry.
var ErrUnknownMetricType = errors.New("unknown metric type")

var registry = map[string]func() Metric{
	"DegreeDistributionR":              func() Metric { return NewDegreeDistributionR() },
	"DegreeDistributionU":              func() Metric { return NewDegreeDistributionU() },
	"WeakConnectivityR":                func() Metric { return NewWeakConnectivityR() },
	"WeakConnectivityU":                func() Metric { return NewWeakConnectivityU() },
	"UnweightedAllPairsShortestPathsR": func() Metric { return NewUnweightedAllPairsShortestPathsR() },
	"RootMeanSquareDeviationR":         func() Metric { return NewRootMeanSquareDeviationR() },
	"RootMeanSquareDeviationU":         func() Metric { return NewRootMeanSquareDeviationU() },
	"JaccardUndirectedIntWeightedR":    func() Metric { return NewJaccardUndirectedIntWeightedR() },
	"JaccardUndirectedIntWeightedU":    func() Metric { return NewJaccardUndirectedIntWeightedU() },
	"DFSWorkload":                      func() Metric { return NewDFSWorkload(DefaultWorkloadTimes, DefaultWorkloadSamples) },
	"Aggregate":                        func() Metric { return NewAggregate() },
}

// New builds the named metric.
func New(name string) (Metric, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetricType, name)
	}
	return f(), nil
}

// NewAll builds every named metric, failing on the first unknown name.
func NewAll(names []string) ([]Metric, error) {
	out := make([]Metric, 0, len(names))
	for _, n := range names {
		m, err := New(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Names lists the registered metric names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
