package history

import (
	"sort"

	"github.com/abh/reconciled/observation"
)

// unionFind is a small path-compressed disjoint-set, the idiomatic Go
// substitute for computing connected components of the undirected
// incomparability graph (spec §4.1 steps 1-3). The source prototype used
// petgraph's tarjan_scc on an explicit complement graph; a union-find
// over "incomparable" edges gets the same connected components without
// materializing either graph.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// deriveLevels partitions observations into levels: connected components
// of the graph whose edges join pairwise-incomparable observations (spec
// §4.1 steps 1-3). Observations compared and found Less/Greater are left
// unconnected; everything reachable only through Incomparable edges ends
// up in the same level, because two observations in the same level may
// have occurred in either order relative to each other.
func deriveLevels(obs []observation.Observation) []Level {
	if len(obs) == 0 {
		return nil
	}

	uf := newUnionFind(len(obs))
	for i := 0; i < len(obs); i++ {
		for j := i + 1; j < len(obs); j++ {
			if observation.Compare(obs[i], obs[j]) == observation.Incomparable {
				uf.union(i, j)
			}
		}
	}

	byRoot := make(map[int]*Level)
	order := make([]int, 0, len(obs))
	for i, o := range obs {
		root := uf.find(i)
		lv, ok := byRoot[root]
		if !ok {
			l := newLevel(o, i)
			byRoot[root] = &l
			order = append(order, root)
			continue
		}
		lv.absorb(newLevel(o, i))
	}

	levels := make([]Level, 0, len(order))
	for _, root := range order {
		levels = append(levels, *byRoot[root])
	}
	return levels
}

// topologicalOrder sorts levels per spec §4.1 steps 4-5: build the level
// DAG (Li -> Lj whenever any representative of Li is Less than any
// representative of Lj — by the antichain-cover invariant, every member
// of Li orders identically against every member of Lj, so one
// representative pair suffices), then Kahn's-algorithm topological sort
// with ties broken by minimum interval.Lo, then by the level's stable tag.
//
// This mirrors the hand-rolled Kahn's-algorithm topological sort pattern
// (in-degree counts, a ready queue seeded deterministically, repeated
// decrement-and-enqueue) rather than a recursive DFS.
func topologicalOrder(levels []Level) []Level {
	n := len(levels)
	if n <= 1 {
		return levels
	}

	successors := make([][]int, n)
	inDegree := make([]int, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch observation.Compare(levels[i].Observations[0], levels[j].Observations[0]) {
			case observation.Less:
				successors[i] = append(successors[i], j)
				inDegree[j]++
			case observation.Greater:
				successors[j] = append(successors[j], i)
				inDegree[i]++
			}
		}
	}

	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	byReadiness := func(idxs []int) {
		sort.Slice(idxs, func(a, b int) bool {
			la, lb := levels[idxs[a]], levels[idxs[b]]
			if la.Interval.Lo != lb.Interval.Lo {
				return la.Interval.Lo < lb.Interval.Lo
			}
			return la.tag < lb.tag
		})
	}

	ordered := make([]Level, 0, n)
	for len(ready) > 0 {
		byReadiness(ready)
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, levels[next])

		for _, succ := range successors[next] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	if len(ordered) != n {
		// The level DAG is acyclic by construction (spec §4.1): distinct
		// levels are always comparable in one consistent direction. A
		// cycle here means that invariant was violated upstream.
		panic("history: level DAG is not acyclic")
	}

	return ordered
}
