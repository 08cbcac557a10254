// Package profiler counts graph list accesses per (list kind, access kind)
// and turns the counts into complexity estimates and strategy recommendations.
//
// A Profiler is owned by one session; there is no process-wide registry.
// Install it on a graph with core.WithObserver and attribute work to named
// sections with Enter:
//
//	p := profiler.New()
//	g, _ := core.NewGraph(core.WithObserver(p))
//	done := p.Enter("metric.DegreeDistributionU")
//	... // accesses counted under that section
//	done()
//
// Profiles from different sections or runs combine with Profile.Add, which is
// associative and commutative.
package profiler

import (
	"sort"
	"sync"

	"github.com/katalvlaran/tempograph/datastructure"
)

// Well-known section names.
const (
	SectionGraph = "graph"
	SectionBatch = "batch.apply"
	// SectionMetricPrefix prefixes the per-metric sections.
	SectionMetricPrefix = "metric."
)

// Profiler implements core.Observer. It is safe for concurrent use.
type Profiler struct {
	mu       sync.Mutex
	current  string
	sections map[string]*Profile
}

// New returns a profiler attributing accesses to SectionGraph.
func New() *Profiler {
	return &Profiler{current: SectionGraph, sections: make(map[string]*Profile)}
}

// Observe counts one access under the current section.
func (p *Profiler) Observe(list datastructure.ListKind, access datastructure.AccessKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prof, ok := p.sections[p.current]
	if !ok {
		prof = &Profile{}
		p.sections[p.current] = prof
	}
	prof.Increase(list, access, 1)
}

// Enter makes section current and returns a func restoring the previous one.
func (p *Profiler) Enter(section string) (restore func()) {
	p.mu.Lock()
	prev := p.current
	p.current = section
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		p.current = prev
		p.mu.Unlock()
	}
}

// Current returns the section accesses are attributed to.
func (p *Profiler) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

// Section returns a copy of the named section's profile.
func (p *Profiler) Section(name string) Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prof, ok := p.sections[name]; ok {
		return *prof
	}
	return Profile{}
}

// Sections returns the names of every section with counts, sorted.
func (p *Profiler) Sections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.sections))
	for name := range p.sections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Aggregate sums every section into one profile.
func (p *Profiler) Aggregate() Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out Profile
	for _, prof := range p.sections {
		out = out.Add(*prof)
	}
	return out
}

// Reset drops all counts and returns to SectionGraph.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sections = make(map[string]*Profile)
	p.current = SectionGraph
}
