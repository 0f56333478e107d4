package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Group is a maximal set of mutually dependent units collapsed into a single
// schedulable node. Its cost is the sum of member costs.
type Group struct {
	Members []InternedString
	Cost    int64
}

// Layer is a dependency-ordered tier of groups: every dependency of every
// member resolves to a layer with a strictly smaller index.
type Layer []Group

// UnitCount returns the number of member units across all groups in the layer.
func (l Layer) UnitCount() int {
	n := 0
	for _, grp := range l {
		n += len(grp.Members)
	}
	return n
}

// Layers collapses strongly-connected groups and buckets them into an ordered
// sequence of layers. The layer index of a group is 1 + the maximum index of
// its dependencies, with index 0 for groups without dependencies.
func (g *Graph) Layers() ([]Layer, error) {
	sccs, sccOf, err := g.stronglyConnected()
	if err != nil {
		return nil, err
	}

	// Condense into an index-addressed array of group records. Dependencies
	// between members of the same group collapse away.
	groupDeps := make([][]int, len(sccs))
	for i, members := range sccs {
		seen := make(map[int]bool)
		for _, name := range members {
			for _, dep := range g.units[name].Deps {
				j := sccOf[dep]
				if j != i && !seen[j] {
					seen[j] = true
					groupDeps[i] = append(groupDeps[i], j)
				}
			}
		}
	}

	depth, err := layerDepths(groupDeps)
	if err != nil {
		return nil, err
	}

	pos := make(map[InternedString]int, len(g.order))
	for i, name := range g.order {
		pos[name] = i
	}

	maxDepth := 0
	for _, d := range depth {
		maxDepth = max(maxDepth, d)
	}

	layers := make([]Layer, maxDepth+1)
	for i, members := range sccs {
		sorted := slices.Clone(members)
		slices.SortFunc(sorted, func(a, b InternedString) int {
			return pos[a] - pos[b]
		})
		var cost int64
		for _, name := range sorted {
			cost += g.units[name].Cost
		}
		layers[depth[i]] = append(layers[depth[i]], Group{Members: sorted, Cost: cost})
	}
	for _, layer := range layers {
		slices.SortFunc(layer, func(a, b Group) int {
			return pos[a.Members[0]] - pos[b.Members[0]]
		})
	}
	return layers, nil
}

// stronglyConnected runs Tarjan's algorithm over the graph in insertion order.
// It returns the components and a unit -> component index mapping.
func (g *Graph) stronglyConnected() ([][]InternedString, map[InternedString]int, error) {
	index := make(map[InternedString]int, len(g.units))
	lowlink := make(map[InternedString]int, len(g.units))
	onStack := make(map[InternedString]bool, len(g.units))
	var stack []InternedString
	var sccs [][]InternedString
	sccOf := make(map[InternedString]int, len(g.units))
	next := 0

	var connect func(u InternedString) error
	connect = func(u InternedString) error {
		index[u] = next
		lowlink[u] = next
		next++
		stack = append(stack, u)
		onStack[u] = true

		for _, dep := range g.units[u].Deps {
			if _, exists := g.units[dep]; !exists {
				return zerr.With(zerr.With(ErrMissingDependency, "unit", u.String()), "dependency", dep.String())
			}
			if _, seen := index[dep]; !seen {
				if err := connect(dep); err != nil {
					return err
				}
				lowlink[u] = min(lowlink[u], lowlink[dep])
			} else if onStack[dep] {
				lowlink[u] = min(lowlink[u], index[dep])
			}
		}

		if lowlink[u] == index[u] {
			var members []InternedString
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				sccOf[w] = len(sccs)
				members = append(members, w)
				if w == u {
					break
				}
			}
			sccs = append(sccs, members)
		}
		return nil
	}

	for _, name := range g.order {
		if _, seen := index[name]; !seen {
			if err := connect(name); err != nil {
				return nil, nil, err
			}
		}
	}
	return sccs, sccOf, nil
}

// layerDepths assigns each condensed node its layer index. The condensation of
// a finite graph is acyclic; hitting a node already on the path means the
// collapse itself failed.
func layerDepths(deps [][]int) ([]int, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, len(deps))
	depth := make([]int, len(deps))

	var visit func(i int) error
	visit = func(i int) error {
		state[i] = visiting
		d := 0
		for _, j := range deps[i] {
			switch state[j] {
			case visiting:
				return ErrCycleResolution
			case unvisited:
				if err := visit(j); err != nil {
					return err
				}
			}
			d = max(d, depth[j]+1)
		}
		depth[i] = d
		state[i] = done
		return nil
	}

	for i := range deps {
		if state[i] == unvisited {
			if err := visit(i); err != nil {
				return nil, err
			}
		}
	}
	return depth, nil
}
